package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	OrderService        OrderService
	TransportService    TransportService
	BlockService        BlockService
	MatchingService     MatchingService
	NotificationService NotificationService
}
