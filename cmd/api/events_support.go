package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/todo-list/internal/config"
	"github.com/yourusername/todo-list/internal/events"
)

// eventLister は記録済みイベントを返せるものが実装します。
type eventLister interface {
	Recent(ctx context.Context, limit int) ([]events.Event, error)
}

func setupEvents(cfg *config.Config, logger *log.Logger) (*events.Manager, error) {
	opt, err := redis.ParseURL(cfg.EventsRedisURL)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(opt)
	retention := cfg.EventsRetentionMinutes
	if retention <= 0 {
		retention = 1440
	}
	store := events.NewStore(redisClient, time.Duration(retention)*time.Minute, cfg.EventsMaxEntries)
	manager, err := events.NewManager(cfg.EventsRedisURL, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return manager, nil
}

func authEventsHandler(lister eventLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if lister == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "EVENTS_DISABLED",
				"message": "auth events are not enabled",
			})
			return
		}

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{
					"code":    "INVALID_INPUT",
					"message": "limit must be a non-negative integer",
				})
				return
			}
			limit = n
		}

		list, err := lister.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "failed to load auth events",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"events": list})
	}
}
