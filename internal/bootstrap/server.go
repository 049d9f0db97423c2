package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/cargobooking/api"
	"github.com/Domenick1991/cargobooking/config"
	"github.com/gin-gonic/gin"
)

// Run assembles the HTTP router, starts the server and blocks until the
// context is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, flightHandler *api.FlightHandler, bookingHandler *api.BookingHandler, userHandler *api.UserHandler, auth gin.HandlerFunc) error {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	userHandler.Register(router.Group("/users"))
	flightHandler.Register(router.Group("/flights"))
	flightHandler.RegisterRoutes(router)
	bookingHandler.Register(router.Group("/bookings"), auth)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
