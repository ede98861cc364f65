package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	OrderHandler        *OrderHandler
	TransportHandler    *TransportHandler
	BlockHandler        *BlockHandler
	MatchingHandler     *MatchingHandler
	NotificationHandler *NotificationHandler
}
