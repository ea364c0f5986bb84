// Command framecheckd runs a simulated world, attaches a frame sink to
// every camera, and periodically logs (and optionally publishes over
// MQTT) per-camera acquisition statistics.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/e7canasta/framecheck"
	"github.com/e7canasta/framecheck/emitter"
	"github.com/e7canasta/framecheck/sim"

	_ "github.com/e7canasta/framecheck/plugins/helloworld"
	_ "github.com/e7canasta/framecheck/plugins/shaderparam"
)

const defaultWorldPath = "worlds/shadow_test.yaml"

// rig pairs a camera with the sink receiving its frames.
type rig struct {
	cam  *sim.Camera
	sink *framecheck.Sink
}

func main() {
	worldPath := flag.String("world", defaultWorldPath, "Path to YAML world file")
	tickRate := flag.Float64("tick-rate", 0, "Override world tick rate (Hz)")
	broker := flag.String("broker", "", "MQTT broker host:port (empty: no emitter)")
	topic := flag.String("topic", "framecheck/stats", "MQTT publish topic")
	encoding := flag.String("encoding", "json", "Snapshot encoding: json or msgpack")
	interval := flag.Duration("interval", 2*time.Second, "Stats reporting interval")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting framecheckd",
		"world", *worldPath,
		"broker", *broker,
		"interval", *interval,
	)

	world, err := sim.LoadWorld(*worldPath)
	if err != nil {
		slog.Error("failed to load world", "error", err)
		os.Exit(1)
	}
	if *tickRate != 0 {
		if err := world.SetTickRate(*tickRate); err != nil {
			slog.Error("invalid tick rate", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var emit *emitter.MQTTEmitter
	if *broker != "" {
		emit, err = emitter.NewMQTTEmitter(emitter.Config{
			Broker:   *broker,
			ClientID: "framecheckd-" + world.Name(),
			Topic:    *topic,
			Encoding: emitter.Encoding(*encoding),
		})
		if err != nil {
			slog.Error("failed to create emitter", "error", err)
			os.Exit(1)
		}
		if err := emit.Connect(ctx); err != nil {
			slog.Error("failed to connect emitter", "error", err)
			os.Exit(1)
		}
		defer emit.Close()
	}

	// One sink per camera; connections stay open for the daemon lifetime.
	var rigs []rig
	for _, cam := range world.Cameras() {
		sink := framecheck.NewSink(cam.ImageWidth(), cam.ImageHeight(), 3)
		conn := cam.ConnectNewFrame(sink.Handler())
		defer conn.Close()
		rigs = append(rigs, rig{cam: cam, sink: sink})
	}

	if err := world.Start(ctx); err != nil {
		slog.Error("failed to start world", "error", err)
		os.Exit(1)
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case sig := <-sigChan:
			slog.Info("received shutdown signal", "signal", sig)
			break loop
		case <-ticker.C:
			report(world, rigs, emit)
		}
	}

	cancel()
	if err := world.Stop(); err != nil {
		slog.Error("world shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("framecheckd stopped")
}

// report logs one stats sample per camera and publishes the snapshot if
// an emitter is configured.
func report(world *sim.World, rigs []rig, emit *emitter.MQTTEmitter) {
	snap := emitter.Snapshot{
		World:   world.Name(),
		Time:    time.Now(),
		SimTime: world.SimTime().Seconds(),
	}

	for _, r := range rigs {
		stats := r.cam.Stats()
		buf := r.sink.Snapshot()
		sum := framecheck.SumChannels(buf, r.cam.ImageWidth(), r.cam.ImageHeight())

		slog.Info("camera stats",
			"sensor", stats.Sensor,
			"frames", stats.Frames,
			"channel_sum", sum,
			"sink_count", r.sink.Count(),
		)
		if err := r.sink.Err(); err != nil {
			slog.Warn("sink delivery error", "sensor", stats.Sensor, "error", err)
		}

		snap.Cameras = append(snap.Cameras, emitter.CameraSample{
			Sensor:     stats.Sensor,
			Frames:     stats.Frames,
			ChannelSum: sum,
			TraceID:    stats.LastTraceID,
		})
	}

	if emit != nil {
		if err := emit.Publish(snap); err != nil {
			slog.Warn("stats publish failed", "error", err)
		}
	}
}
