package service

import "time"

// FillEvent is one partial execution, emitted for background
// publishers in the order the fills occurred.
type FillEvent struct {
	EventID string    `json:"event_id"`
	Seq     uint64    `json:"seq"`
	Taker   string    `json:"taker"`
	Qty     int64     `json:"qty"`
	Price   int64     `json:"price"`
	Time    time.Time `json:"time"`
}
