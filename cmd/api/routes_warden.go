package main

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusstay/internal/attendance"
	"campusstay/internal/events"
	"campusstay/internal/payments"
	"campusstay/internal/queue"
	"campusstay/internal/rooms"
	"campusstay/internal/students"
)

// registerWardenRoutes mounts the management endpoints.
func registerWardenRoutes(g *gin.RouterGroup, app *application) {
	registerWardenRoomRoutes(g, app)
	registerWardenAttendanceRoutes(g, app)
	registerWardenStudentRoutes(g, app)
	registerWardenOpsRoutes(g, app)
}

func registerWardenRoomRoutes(g *gin.RouterGroup, app *application) {
	g.GET("/rooms", func(c *gin.Context) {
		all, err := app.rooms.ListRooms(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rooms": all})
	})

	g.POST("/rooms", func(c *gin.Context) {
		var req struct {
			Name     string `json:"name" binding:"required"`
			Capacity int    `json:"capacity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		room, err := app.rooms.CreateRoom(c.Request.Context(), req.Name, req.Capacity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, room)
	})

	g.DELETE("/rooms/:id", func(c *gin.Context) {
		if err := app.rooms.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.PUT("/rooms/:id/capacity", func(c *gin.Context) {
		// pointer so an explicit 0 binds and reaches the service's floor
		var req struct {
			Capacity *int `json:"capacity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		room, err := app.rooms.SetRoomCapacity(c.Request.Context(), c.Param("id"), *req.Capacity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	})

	g.GET("/rooms/:id/availability", func(c *gin.Context) {
		seats, err := app.rooms.AvailableSeats(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"available": seats})
	})

	g.POST("/rooms/reset", func(c *gin.Context) {
		if err := app.rooms.ResetAllBookings(c.Request.Context()); err != nil {
			respondErr(c, err)
			return
		}
		publish(c, app.q, queue.TypeBooking, gin.H{"action": "reset"})
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/rooms/:id/move/:studentID", func(c *gin.Context) {
		if err := app.rooms.MoveStudent(c.Request.Context(), c.Param("studentID"), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		// no room_id: touches two rooms, so the worker reconciles all
		publish(c, app.q, queue.TypeBooking, gin.H{"student_id": c.Param("studentID"), "action": "move"})
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/rooms/:id/unbook/:studentID", func(c *gin.Context) {
		if err := app.rooms.UnbookStudent(c.Request.Context(), c.Param("studentID")); err != nil {
			respondErr(c, err)
			return
		}
		publish(c, app.q, queue.TypeBooking, gin.H{"student_id": c.Param("studentID"), "action": "unbook"})
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.GET("/requests", func(c *gin.Context) {
		status := rooms.RequestStatus(c.Query("status"))
		list, err := app.rooms.ListRequests(c.Request.Context(), status)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": list})
	})

	g.POST("/requests/:id/approve", func(c *gin.Context) {
		out, err := app.rooms.ApproveRequest(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		publish(c, app.q, queue.TypeRequest, out)
		c.JSON(http.StatusOK, out)
	})

	g.POST("/requests/:id/reject", func(c *gin.Context) {
		var req struct {
			Note string `json:"note"`
		}
		_ = c.ShouldBindJSON(&req)
		out, err := app.rooms.RejectRequest(c.Request.Context(), c.Param("id"), req.Note)
		if err != nil {
			respondErr(c, err)
			return
		}
		publish(c, app.q, queue.TypeRequest, out)
		c.JSON(http.StatusOK, out)
	})
}

func registerWardenAttendanceRoutes(g *gin.RouterGroup, app *application) {
	g.POST("/attendance/sessions", func(c *gin.Context) {
		var req struct {
			DurationMinutes int    `json:"duration_minutes"`
			ForDate         string `json:"for_date"`
		}
		_ = c.ShouldBindJSON(&req)
		duration := time.Duration(req.DurationMinutes) * time.Minute
		sess, err := app.attendance.CreateSession(c.Request.Context(), duration, req.ForDate)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, sess)
	})

	g.GET("/attendance/session", func(c *gin.Context) {
		sess, err := app.attendance.GetActiveSession(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		if sess == nil {
			c.JSON(http.StatusOK, gin.H{"active": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"active": true, "session": sess})
	})

	g.POST("/attendance/lock", func(c *gin.Context) {
		var req struct {
			Date string `json:"date"`
		}
		_ = c.ShouldBindJSON(&req)
		if err := app.attendance.LockSessions(c.Request.Context(), req.Date); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/attendance/finalize", func(c *gin.Context) {
		var req struct {
			Date string `json:"date"`
		}
		_ = c.ShouldBindJSON(&req)
		dateKey := req.Date
		if dateKey == "" {
			dateKey = attendance.DateKey(time.Now().UTC())
		}
		if err := app.attendance.FinalizeAttendance(c.Request.Context(), dateKey); err != nil {
			respondErr(c, err)
			return
		}
		publish(c, app.q, queue.TypeFinalize, gin.H{"date_key": dateKey})
		c.JSON(http.StatusOK, gin.H{"status": "ok", "date_key": dateKey})
	})

	g.GET("/attendance/day/:date", func(c *gin.Context) {
		recs, err := app.attendance.ListDay(c.Request.Context(), c.Param("date"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": recs})
	})

	g.POST("/attendance/manual", func(c *gin.Context) {
		var req struct {
			Date      string `json:"date" binding:"required"`
			StudentID string `json:"student_id" binding:"required"`
			Present   *bool  `json:"present" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rec, err := app.attendance.SetManualPresence(c.Request.Context(), req.Date, req.StudentID, *req.Present)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	g.GET("/geofence", func(c *gin.Context) {
		fence, err := app.attendance.Fence(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"fence": fence})
	})

	g.PUT("/geofence", func(c *gin.Context) {
		var req struct {
			Lat     float64 `json:"lat" binding:"required"`
			Lng     float64 `json:"lng" binding:"required"`
			RadiusM float64 `json:"radius_m" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fence := attendance.Fence{Center: attendance.Point{Lat: req.Lat, Lng: req.Lng}, RadiusM: req.RadiusM}
		if err := app.attendance.SetFence(c.Request.Context(), fence); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"fence": fence})
	})
}

func registerWardenStudentRoutes(g *gin.RouterGroup, app *application) {
	g.GET("/students", func(c *gin.Context) {
		all, err := app.students.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"students": all})
	})

	g.POST("/students", func(c *gin.Context) {
		var req struct {
			RollNumber string           `json:"roll_number" binding:"required"`
			Details    students.Details `json:"details"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := app.students.Create(c.Request.Context(), req.RollNumber, req.Details)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.GET("/students/:id", func(c *gin.Context) {
		out, err := app.students.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	g.PUT("/students/:id", func(c *gin.Context) {
		var details students.Details
		if err := c.ShouldBindJSON(&details); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := app.students.UpdateDetails(c.Request.Context(), c.Param("id"), details)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	g.DELETE("/students/:id", func(c *gin.Context) {
		if err := app.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/students/:id/credentials", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&req)
		ctx := c.Request.Context()

		student, err := app.students.Get(ctx, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		if req.Username == "" {
			req.Username = students.SuggestUsername(student.Details.Name)
		}
		if req.Password == "" {
			req.Password = students.GeneratePassword(0)
		}
		creds := students.Credentials{Username: req.Username, Password: req.Password}
		if err := app.students.SetCredentials(ctx, c.Param("id"), creds); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": req.Username, "password": req.Password})
	})

	g.POST("/students/:id/reset-password", func(c *gin.Context) {
		var req struct {
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&req)
		if req.Password == "" {
			req.Password = students.GeneratePassword(0)
		}
		if err := app.students.ResetPassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"password": req.Password})
	})

	g.GET("/students/:id/payments", func(c *gin.Context) {
		list, err := app.payments.ListByStudent(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		totals, err := app.payments.TotalsFor(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": list, "totals": totals})
	})
}

func registerWardenOpsRoutes(g *gin.RouterGroup, app *application) {
	g.GET("/parcels", func(c *gin.Context) {
		ctx := c.Request.Context()
		var out any
		var err error
		if c.Query("pending") == "true" {
			out, err = app.parcels.ListPending(ctx)
		} else {
			out, err = app.parcels.ListAll(ctx)
		}
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"parcels": out})
	})

	g.POST("/parcels", func(c *gin.Context) {
		var req struct {
			StudentID  string    `json:"student_id" binding:"required"`
			ParcelCode string    `json:"parcel_code" binding:"required"`
			Carrier    string    `json:"carrier"`
			Note       string    `json:"note"`
			ReceivedAt time.Time `json:"received_at"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := app.parcels.Create(c.Request.Context(), req.StudentID, req.ParcelCode, req.Carrier, req.Note, req.ReceivedAt)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.POST("/parcels/:id/override", func(c *gin.Context) {
		if err := app.parcels.OverrideCollected(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.DELETE("/parcels/:id", func(c *gin.Context) {
		if err := app.parcels.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/polls/weekly", func(c *gin.Context) {
		var req struct {
			WeekOf  string   `json:"week_of" binding:"required"`
			Options []string `json:"options" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		poll, err := app.mess.OpenWeeklyPoll(c.Request.Context(), req.WeekOf, req.Options)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, poll)
	})

	g.POST("/polls/weekly/:id/close", func(c *gin.Context) {
		if err := app.mess.CloseWeeklyPoll(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.GET("/polls/weekly/:id/tally", func(c *gin.Context) {
		tally, err := app.mess.WeeklyTally(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tally": tally})
	})

	g.POST("/polls/daily", func(c *gin.Context) {
		var req struct {
			Date  string   `json:"date" binding:"required"`
			Slots []string `json:"slots"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		polls, err := app.mess.OpenDailyPolls(c.Request.Context(), req.Date, req.Slots)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"polls": polls})
	})

	g.POST("/polls/daily/close", func(c *gin.Context) {
		var req struct {
			Date string `json:"date" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := app.mess.CloseDailyPolls(c.Request.Context(), req.Date); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.GET("/polls/daily/:id/headcount", func(c *gin.Context) {
		count, err := app.mess.DailyHeadcount(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, count)
	})

	g.POST("/events", func(c *gin.Context) {
		var req struct {
			Name        string    `json:"name" binding:"required"`
			Description string    `json:"description"`
			Type        string    `json:"type"`
			StartsAt    time.Time `json:"starts_at" binding:"required"`
			Venue       string    `json:"venue"`
			Expected    *int      `json:"expected"`
			Budget      *float64  `json:"budget"`
			PosterURL   string    `json:"poster_url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := app.events.Create(c.Request.Context(), events.NewEvent{
			Name:        req.Name,
			Description: req.Description,
			Type:        req.Type,
			StartsAt:    req.StartsAt,
			Venue:       req.Venue,
			Expected:    req.Expected,
			Budget:      req.Budget,
			PosterURL:   req.PosterURL,
		}, events.OrganizerWarden, app.cfg.WardenUser)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.GET("/events", func(c *gin.Context) {
		list, err := app.events.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": list})
	})

	g.GET("/events/pending", func(c *gin.Context) {
		list, err := app.events.ListPendingProposals(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": list})
	})

	g.POST("/events/:id/approve", func(c *gin.Context) {
		if err := app.events.Approve(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/events/:id/reject", func(c *gin.Context) {
		if err := app.events.Reject(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/events/:id/complete", func(c *gin.Context) {
		if err := app.events.Complete(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.GET("/events/analytics", func(c *gin.Context) {
		stats, err := app.events.BuildAnalytics(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/complaints", func(c *gin.Context) {
		feed, err := app.complaints.ListFeed(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"complaints": feed})
	})

	g.POST("/complaints/:id/resolve", func(c *gin.Context) {
		if err := app.complaints.Resolve(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/payments", func(c *gin.Context) {
		var req struct {
			StudentID string    `json:"student_id" binding:"required"`
			Amount    float64   `json:"amount" binding:"required"`
			Method    string    `json:"method" binding:"required"`
			PaidAt    time.Time `json:"paid_at"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := app.payments.AddPayment(c.Request.Context(), req.StudentID, req.Amount, payments.Method(req.Method), req.PaidAt)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.GET("/payments/summary", func(c *gin.Context) {
		rows, err := app.payments.SummaryAll(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"summary": rows})
	})

	g.GET("/payments/export.csv", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := app.payments.ExportCSV(c.Request.Context(), &buf); err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="payments.csv"`)
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	})

	g.POST("/upload", func(c *gin.Context) {
		if app.uploader == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
			return
		}
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
			return
		}
		result, err := app.uploader.UploadBase64(c.Request.Context(), body.Data)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": result.SecureURL, "public_id": result.PublicID, "bytes": result.Bytes})
	})
}
