package protocol

import "github.com/JCaesar45/Chart-the-Stock-Market/pkg/models"

// Inbound message types.
const (
	TypeAddStock    = "add_stock"
	TypeRemoveStock = "remove_stock"
	TypeGetHistory  = "get_history"
)

// Outbound event names.
const (
	EventInitialData  = "initial_data"
	EventClientCount  = "client_count"
	EventStockAdded   = "stock_added"
	EventStockRemoved = "stock_removed"
	EventPriceUpdate  = "price_update"
	EventHistoryData  = "history_data"
	EventError        = "error"
)

// Mutation origins.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// ClientMessage is a command from a connected observer.
type ClientMessage struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol,omitempty"`
	Source string `json:"source,omitempty"`
	Days   int    `json:"days,omitempty"`
}

// Envelope wraps every outbound message with its event name.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type InitialDataPayload struct {
	Stocks      []models.Stock `json:"stocks"`
	ClientCount int            `json:"client_count"`
}

type ClientCountPayload struct {
	Count int `json:"count"`
}

type StockAddedPayload struct {
	Symbol  string       `json:"symbol"`
	Stock   models.Stock `json:"stock"`
	Source  string       `json:"source"`
	AddedBy string       `json:"added_by,omitempty"`
}

type StockRemovedPayload struct {
	Symbol    string `json:"symbol"`
	Source    string `json:"source"`
	RemovedBy string `json:"removed_by,omitempty"`
}

type HistoryDataPayload struct {
	Symbol string              `json:"symbol"`
	Data   []models.PricePoint `json:"data"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Error builds a ready-to-send error envelope.
func Error(message string) Envelope {
	return Envelope{Event: EventError, Data: ErrorPayload{Message: message}}
}
