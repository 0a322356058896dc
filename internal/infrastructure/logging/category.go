package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Sync            Category = "Sync"
	WS              Category = "WS"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	EventIngress    SubCategory = "EventIngress"
	Broadcast       SubCategory = "Broadcast"
	Negotiate       SubCategory = "Negotiate"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	RoomID       ExtraKey = "RoomId"
	UserID       ExtraKey = "UserId"
	ConnectionID ExtraKey = "ConnectionId"
	EventType    ExtraKey = "EventType"
	MessageType  ExtraKey = "MessageType"
	ClientIP     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"
)
