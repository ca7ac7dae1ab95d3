package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"matchbook/api/httpserver"
	"matchbook/console"
	"matchbook/domain/book"
	"matchbook/infra/kafka"
	"matchbook/infra/ring"
	"matchbook/jobs/broadcaster"
	"matchbook/jobs/depth"
	"matchbook/service"
)

func main() {
	var (
		depthLevels   = flag.Int("depth", 5, "price levels shown per side")
		seedPath      = flag.String("seed", "", "file of limit instructions applied at startup")
		httpAddr      = flag.String("http", "", "listen address for the JSON API (disabled when empty)")
		brokers       = flag.String("brokers", "", "comma-separated Kafka brokers (publishing disabled when empty)")
		fillsTopic    = flag.String("fills-topic", "matchbook.fills", "Kafka topic for fill events")
		depthTopic    = flag.String("depth-topic", "matchbook.depth", "Kafka topic for depth snapshots")
		fillInterval  = flag.Duration("fill-interval", 250*time.Millisecond, "fill broadcast drain interval")
		depthInterval = flag.Duration("depth-interval", 2*time.Second, "depth snapshot publish interval")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---------------- Domain ----------------

	b := book.New()
	fills := ring.New[service.FillEvent](1 << 14)
	svc := service.New(b, fills)

	// ---------------- Seed ----------------

	if *seedPath != "" {
		f, err := os.Open(*seedPath)
		if err != nil {
			log.Fatalf("open seed file: %v", err)
		}
		n, err := console.Seed(svc, f)
		f.Close()
		if err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		log.Printf("[main] seeded %d resting orders", n)
	}

	// ---------------- Background Jobs ----------------

	if *brokers != "" {
		brokerList := strings.Split(*brokers, ",")

		bc, err := broadcaster.New(fills, brokerList, *fillsTopic, *fillInterval)
		if err != nil {
			log.Fatalf("broadcaster init failed: %v", err)
		}
		defer bc.Close()
		bc.Start(ctx)

		producer := kafka.NewProducer(brokerList, *depthTopic)
		defer producer.Close()
		depth.NewPublisher(svc, producer, *depthLevels, *depthInterval).Start(ctx)
	}

	// ---------------- HTTP API ----------------

	if *httpAddr != "" {
		api := httpserver.New(svc)
		go func() {
			log.Printf("[http] listening on %s", *httpAddr)
			if err := http.ListenAndServe(*httpAddr, api.Router()); err != nil {
				log.Fatalf("http server exited: %v", err)
			}
		}()
	}

	// ---------------- Console ----------------

	loop := console.NewLoop(svc, os.Stdout, *depthLevels)
	if err := loop.Run(ctx, os.Stdin); err != nil {
		log.Fatalf("console loop exited: %v", err)
	}
}
