package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"campusstay/internal/config"
	"campusstay/internal/queue"
	"campusstay/internal/rooms"
	"campusstay/internal/store"
)

// Worker consumes queue messages published by the API: it reconciles
// room fill counts after booking changes and writes audit lines for
// check-ins, request resolutions, and finalized days.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "campusstay:events")
	}

	roomSvc := rooms.NewService(rooms.NewPGRepository(db.Client))

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		switch msg.Type {
		case queue.TypeBooking:
			var body struct {
				RoomID    string `json:"room_id"`
				StudentID string `json:"student_id"`
				Action    string `json:"action"`
			}
			if err := json.Unmarshal(msg.Body, &body); err != nil {
				log.Printf("bad booking message: %v", err)
				continue
			}
			if body.RoomID != "" {
				if err := roomSvc.ReconcileFill(ctx, body.RoomID); err != nil {
					log.Printf("reconcile room %s failed: %v", body.RoomID, err)
					continue
				}
				log.Printf("reconciled fill count for room %s (%s)", body.RoomID, body.Action)
			} else {
				reconcileAll(ctx, roomSvc, body.Action)
			}

		case queue.TypeCheckin:
			var rec struct {
				DateKey   string `json:"date_key"`
				StudentID string `json:"student_id"`
				Status    string `json:"status"`
			}
			if err := json.Unmarshal(msg.Body, &rec); err != nil {
				log.Printf("bad checkin message: %v", err)
				continue
			}
			log.Printf("attendance %s: %s marked %s", rec.DateKey, rec.StudentID, rec.Status)

		case queue.TypeRequest:
			var req struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			}
			if err := json.Unmarshal(msg.Body, &req); err != nil {
				log.Printf("bad request message: %v", err)
				continue
			}
			log.Printf("room request %s resolved: %s", req.ID, req.Status)
			// an approved request changed occupancy
			if req.Status == string(rooms.StatusApproved) {
				reconcileAll(ctx, roomSvc, "request")
			}

		case queue.TypeFinalize:
			var body struct {
				DateKey string `json:"date_key"`
			}
			if err := json.Unmarshal(msg.Body, &body); err != nil {
				log.Printf("bad finalize message: %v", err)
				continue
			}
			log.Printf("attendance finalized for %s", body.DateKey)

		default:
			log.Printf("unknown message type %q, skipping", msg.Type)
		}
	}

	log.Println("worker stopped")
}

// reconcileAll recomputes the fill count for every room. Used after
// unbooks and resets, where the message does not carry a room id.
func reconcileAll(ctx context.Context, svc *rooms.Service, action string) {
	all, err := svc.ListRooms(ctx)
	if err != nil {
		log.Printf("list rooms failed: %v", err)
		return
	}
	for _, room := range all {
		if err := svc.ReconcileFill(ctx, room.ID); err != nil {
			log.Printf("reconcile room %s failed: %v", room.ID, err)
		}
	}
	log.Printf("reconciled fill counts for %d rooms (%s)", len(all), action)
}
