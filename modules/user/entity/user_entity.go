package entity

import (
	"event-manager-api/core/entity"
)

type User struct {
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	Password       string `db:"password" json:"-"`
	ProfilePicture string `db:"profile_picture" json:"profile_picture"`
	entity.BaseEntity
}
