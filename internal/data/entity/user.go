package entity

import "time"

type User struct {
	Base
	Username       string     `db:"username"`
	Email          string     `db:"email"`
	PasswordHash   string     `db:"password"`
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	ProfilePicture *string    `db:"profile_picture"`
	Verified       bool       `db:"verified"`
	Bio            string     `db:"bio"`
	Address        string     `db:"address"`
	BirthDate      *time.Time `db:"birth_date"`
	Phone          string     `db:"phone"`
}
