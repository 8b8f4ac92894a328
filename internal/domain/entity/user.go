package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin   = "admin"
	RoleCliente = "cliente"
)

// User usuario de la dulcería. El rol viaja en el claim del JWT para que el
// middleware RBAC decida sin consultar la DB.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // "admin" | "cliente"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
