package models

type UserRole string

const (
	UserRoleShipper UserRole = "shipper" // владелец грузов
	UserRoleCarrier UserRole = "carrier" // владелец транспорта
	UserRoleAdmin   UserRole = "admin"
)

type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)
