package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

type ProfileRefreshedEvent struct {
	Type      string `json:"type"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

type GapComputedEvent struct {
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Mode      string `json:"mode"`
	Timestamp string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyProfileRefreshed announces that an occupation profile was fetched
// from the external source and landed locally.
func NotifyProfileRefreshed(code string) {
	h := defaultHub.Load()
	if h == nil || code == "" {
		return
	}

	evt := ProfileRefreshedEvent{
		Type:      "profile_refreshed",
		Code:      code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}

// NotifyGapComputed announces a completed gap analysis.
func NotifyGapComputed(fromCode, toCode, mode string) {
	h := defaultHub.Load()
	if h == nil || fromCode == "" || toCode == "" {
		return
	}

	evt := GapComputedEvent{
		Type:      "gap_computed",
		From:      fromCode,
		To:        toCode,
		Mode:      mode,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
