// Package emitter publishes world acquisition statistics to an MQTT
// broker, for dashboards watching long-running simulation rigs.
package emitter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the wire format for published snapshots.
type Encoding string

const (
	// EncodingJSON publishes snapshots as JSON (default, human-readable).
	EncodingJSON Encoding = "json"
	// EncodingMsgpack publishes snapshots as msgpack (compact).
	EncodingMsgpack Encoding = "msgpack"
)

// Snapshot is one published statistics sample for a world.
type Snapshot struct {
	World   string         `json:"world" msgpack:"world"`
	Time    time.Time      `json:"time" msgpack:"time"`
	SimTime float64        `json:"sim_time_s" msgpack:"sim_time_s"`
	Cameras []CameraSample `json:"cameras" msgpack:"cameras"`
}

// CameraSample is the per-camera slice of a snapshot.
type CameraSample struct {
	Sensor string `json:"sensor" msgpack:"sensor"`
	// Frames rendered since world start.
	Frames uint64 `json:"frames" msgpack:"frames"`
	// ChannelSum is the aggregate R+G+B sum of the camera's latest
	// acquired frame (brightness proxy).
	ChannelSum uint64 `json:"channel_sum" msgpack:"channel_sum"`
	// TraceID identifies the latest rendered frame.
	TraceID string `json:"trace_id" msgpack:"trace_id"`
}

// Encode serializes a snapshot in the given encoding.
func Encode(enc Encoding, snap Snapshot) ([]byte, error) {
	switch enc {
	case EncodingJSON, "":
		return json.Marshal(snap)
	case EncodingMsgpack:
		return msgpack.Marshal(snap)
	default:
		return nil, fmt.Errorf("emitter: unknown encoding %q", enc)
	}
}

// Decode deserializes a snapshot in the given encoding.
func Decode(enc Encoding, data []byte) (Snapshot, error) {
	var snap Snapshot
	switch enc {
	case EncodingJSON, "":
		if err := json.Unmarshal(data, &snap); err != nil {
			return Snapshot{}, fmt.Errorf("emitter: decode json: %w", err)
		}
	case EncodingMsgpack:
		if err := msgpack.Unmarshal(data, &snap); err != nil {
			return Snapshot{}, fmt.Errorf("emitter: decode msgpack: %w", err)
		}
	default:
		return Snapshot{}, fmt.Errorf("emitter: unknown encoding %q", enc)
	}
	return snap, nil
}
