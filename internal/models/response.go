package models

import (
	"net/http"
	"time"
)

// ResponseModel Base response structure that can be reused
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// EntryData wraps a single entity in the response envelope.
type EntryData struct {
	Entry interface{} `json:"entry"`
}

// SnapshotMeta is the snapshot-level metadata returned alongside vehicle data.
type SnapshotMeta struct {
	Timestamp      time.Time `json:"timestamp"`
	Valid          bool      `json:"valid"`
	VehicleCount   int       `json:"vehicleCount"`
	SchedulerState string    `json:"schedulerState"`
}

// VehicleListData is the payload of the vehicle list endpoint.
type VehicleListData struct {
	Snapshot SnapshotMeta       `json:"snapshot"`
	Vehicles []*VehicleSnapshot `json:"vehicles"`
}

// ResponseCurrentTime returns the current time in epoch milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// NewOKResponse creates a successful response envelope around data.
func NewOKResponse(data interface{}) ResponseModel {
	return ResponseModel{
		Code:        http.StatusOK,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        "OK",
		Version:     2,
	}
}

// NewEntryResponse creates a successful response around a single entity.
func NewEntryResponse(entry interface{}) ResponseModel {
	return NewOKResponse(EntryData{Entry: entry})
}
