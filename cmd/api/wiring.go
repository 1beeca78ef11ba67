package main

import (
	"log"

	"campusstay/internal/attendance"
	"campusstay/internal/complaints"
	"campusstay/internal/config"
	"campusstay/internal/events"
	"campusstay/internal/media"
	"campusstay/internal/mess"
	"campusstay/internal/parcels"
	"campusstay/internal/payments"
	"campusstay/internal/queue"
	"campusstay/internal/rooms"
	"campusstay/internal/store"
	"campusstay/internal/students"
)

// buildApplication wires repositories and services for the selected
// store backend. The memory backend keeps everything in process and is
// meant for local development.
func buildApplication(cfg config.App, db *store.DB, q queue.Queue) *application {
	useMemory := cfg.StoreBackend == "memory" || db == nil
	if useMemory && cfg.StoreBackend != "memory" {
		log.Println("db unavailable, falling back to in-memory store")
	}

	var (
		roomRepo      rooms.Repository
		attRepo       attendance.Repository
		studentRepo   students.Repository
		paymentRepo   payments.Repository
		messRepo      mess.Repository
		parcelRepo    parcels.Repository
		eventRepo     events.Repository
		complaintRepo complaints.Repository
	)
	if useMemory {
		roomRepo = rooms.NewMemoryRepository()
		attRepo = attendance.NewMemoryRepository()
		studentRepo = students.NewMemoryRepository()
		paymentRepo = payments.NewMemoryRepository()
		messRepo = mess.NewMemoryRepository()
		parcelRepo = parcels.NewMemoryRepository()
		eventRepo = events.NewMemoryRepository()
		complaintRepo = complaints.NewMemoryRepository()
	} else {
		roomRepo = rooms.NewPGRepository(db.Client)
		attRepo = attendance.NewPGRepository(db.Client)
		studentRepo = students.NewPGRepository(db.Client)
		paymentRepo = payments.NewPGRepository(db.Client)
		messRepo = mess.NewPGRepository(db.Client)
		parcelRepo = parcels.NewPGRepository(db.Client)
		eventRepo = events.NewPGRepository(db.Client)
		complaintRepo = complaints.NewPGRepository(db.Client)
	}

	studentSvc := students.NewService(studentRepo)

	var uploader *media.Uploader
	if u := media.NewUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder); u.Configured() {
		uploader = u
		log.Println("media uploads configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("media uploads not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	return &application{
		cfg:        cfg,
		rooms:      rooms.NewService(roomRepo),
		attendance: attendance.NewService(attRepo, studentSvc, cfg.SessionDuration),
		students:   studentSvc,
		payments:   payments.NewService(paymentRepo, studentSvc),
		mess:       mess.NewService(messRepo),
		parcels:    parcels.NewService(parcelRepo),
		events:     events.NewService(eventRepo),
		complaints: complaints.NewService(complaintRepo),
		uploader:   uploader,
		q:          q,
	}
}
