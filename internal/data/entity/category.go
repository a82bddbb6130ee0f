package entity

type Category struct {
	BaseSimple
	Name string `db:"name"`
}

type Tag struct {
	BaseSimple
	Name string `db:"name"`
}
