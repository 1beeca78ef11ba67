package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusstay/internal/attendance"
	"campusstay/internal/auth"
	"campusstay/internal/events"
	"campusstay/internal/queue"
)

// registerStudentRoutes mounts the endpoints available to a logged-in
// student. The student id always comes from the token, never the body.
func registerStudentRoutes(g *gin.RouterGroup, app *application) {
	g.GET("/profile", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		view, err := app.students.GetPublic(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	})

	g.GET("/rooms", func(c *gin.Context) {
		all, err := app.rooms.ListRooms(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rooms": all})
	})

	g.GET("/room", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		room, err := app.rooms.FindStudentRoom(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": room})
	})

	g.POST("/rooms/:id/book", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		room, roommates, err := app.rooms.BookRoom(c.Request.Context(), claims.Subject, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		publish(c, app.q, queue.TypeBooking, gin.H{"room_id": room.ID, "student_id": claims.Subject, "action": "book"})
		c.JSON(http.StatusOK, gin.H{"room": room, "roommates": roommates})
	})

	g.DELETE("/room", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		if err := app.rooms.UnbookStudent(c.Request.Context(), claims.Subject); err != nil {
			respondErr(c, err)
			return
		}
		publish(c, app.q, queue.TypeBooking, gin.H{"student_id": claims.Subject, "action": "unbook"})
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/requests/leave", func(c *gin.Context) {
		var req struct {
			Note string `json:"note"`
		}
		_ = c.ShouldBindJSON(&req)
		claims, _ := auth.FromContext(c)
		out, err := app.rooms.CreateLeaveRequest(c.Request.Context(), claims.Subject, req.Note)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.POST("/requests/change", func(c *gin.Context) {
		var req struct {
			TargetRoomID string `json:"target_room_id" binding:"required"`
			Note         string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		claims, _ := auth.FromContext(c)
		out, err := app.rooms.CreateChangeRequest(c.Request.Context(), claims.Subject, req.TargetRoomID, req.Note)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
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
		// Token is deliberately withheld; students get it by scanning
		// the warden's QR code.
		c.JSON(http.StatusOK, gin.H{
			"active":     true,
			"date_key":   sess.DateKey,
			"expires_at": sess.ExpiresAt,
		})
	})

	g.POST("/attendance/mark", func(c *gin.Context) {
		var req struct {
			Token string   `json:"token" binding:"required"`
			Lat   *float64 `json:"lat"`
			Lng   *float64 `json:"lng"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var point *attendance.Point
		if req.Lat != nil && req.Lng != nil {
			point = &attendance.Point{Lat: *req.Lat, Lng: *req.Lng}
		}
		claims, _ := auth.FromContext(c)
		rec, err := app.attendance.MarkWithToken(c.Request.Context(), req.Token, claims.Subject, point)
		if err != nil {
			respondErr(c, err)
			return
		}
		publish(c, app.q, queue.TypeCheckin, rec)
		c.JSON(http.StatusOK, rec)
	})

	g.GET("/polls/weekly", func(c *gin.Context) {
		poll, err := app.mess.ActiveWeekly(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"poll": poll})
	})

	g.POST("/polls/weekly/:id/vote", func(c *gin.Context) {
		var req struct {
			Day    string `json:"day" binding:"required"`
			Meal   string `json:"meal" binding:"required"`
			Option string `json:"option" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		claims, _ := auth.FromContext(c)
		if err := app.mess.VoteWeekly(c.Request.Context(), c.Param("id"), claims.Subject, req.Day, req.Meal, req.Option); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.GET("/polls/daily", func(c *gin.Context) {
		dateKey := c.Query("date")
		if dateKey == "" {
			dateKey = attendance.DateKey(time.Now().UTC())
		}
		polls, err := app.mess.ActiveDaily(c.Request.Context(), dateKey)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"polls": polls})
	})

	g.POST("/polls/daily/:id/respond", func(c *gin.Context) {
		var req struct {
			Choice string `json:"choice" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		claims, _ := auth.FromContext(c)
		if err := app.mess.RespondDaily(c.Request.Context(), c.Param("id"), claims.Subject, req.Choice); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.GET("/mess/skips", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		n, err := app.mess.SkippedMealsCount(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"skipped": n})
	})

	g.GET("/parcels", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		list, err := app.parcels.ListByStudent(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"parcels": list})
	})

	g.POST("/parcels/:id/collect", func(c *gin.Context) {
		var req struct {
			OTP string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := app.parcels.CollectWithOTP(c.Request.Context(), c.Param("id"), req.OTP)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	g.GET("/events", func(c *gin.Context) {
		list, err := app.events.ListUpcoming(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": list})
	})

	g.GET("/events/past", func(c *gin.Context) {
		list, err := app.events.ListPast(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": list})
	})

	g.POST("/events/propose", func(c *gin.Context) {
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
		claims, _ := auth.FromContext(c)
		out, err := app.events.Create(c.Request.Context(), events.NewEvent{
			Name:        req.Name,
			Description: req.Description,
			Type:        req.Type,
			StartsAt:    req.StartsAt,
			Venue:       req.Venue,
			Expected:    req.Expected,
			Budget:      req.Budget,
			PosterURL:   req.PosterURL,
		}, events.OrganizerStudent, claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.POST("/events/:id/register", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		if err := app.events.Register(c.Request.Context(), c.Param("id"), claims.Subject); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.POST("/events/:id/comments", func(c *gin.Context) {
		var req struct {
			Text string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := app.events.AddComment(c.Request.Context(), c.Param("id"), events.OrganizerStudent, req.Text)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.GET("/complaints", func(c *gin.Context) {
		feed, err := app.complaints.ListFeed(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"complaints": feed})
	})

	g.POST("/complaints", func(c *gin.Context) {
		var req struct {
			Category  string `json:"category" binding:"required"`
			Text      string `json:"text" binding:"required"`
			Anonymous bool   `json:"anonymous"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		claims, _ := auth.FromContext(c)
		studentID := claims.Subject
		if req.Anonymous {
			studentID = ""
		}
		out, err := app.complaints.Create(c.Request.Context(), studentID, req.Category, req.Text)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.POST("/complaints/:id/upvote", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		if err := app.complaints.Upvote(c.Request.Context(), c.Param("id"), claims.Subject); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.GET("/complaints/:id/upvoted", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		voted, err := app.complaints.HasUpvoted(c.Request.Context(), c.Param("id"), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"upvoted": voted})
	})

	g.GET("/payments", func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		list, err := app.payments.ListByStudent(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		totals, err := app.payments.TotalsFor(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": list, "totals": totals})
	})
}
