package models

type User struct {
	ID       int64  `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password_hash" json:"-"`
	IsAdmin  bool   `db:"is_admin" json:"is_admin"`
}
