package controller

import (
	"context"
	"time"
)

func contextWithMailTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}
