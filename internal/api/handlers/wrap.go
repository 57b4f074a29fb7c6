// server/internal/api/handlers/wrap.go
package handlers

import (
	"farm-catalog-server/internal/socket"
	"farm-catalog-server/internal/store"

	"github.com/gin-gonic/gin"
)

// HandlerFunc là handler trả lỗi về thay vì tự ghi response lỗi.
type HandlerFunc func(c *gin.Context) error

// Wrap adapts fn to gin. A returned error is recorded on the context and the
// chain is aborted, leaving the response to the error middleware.
func Wrap(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// Broadcaster nhận các sự kiện thay đổi danh mục (thường là socket.Hub).
type Broadcaster interface {
	Broadcast(event socket.Event)
}

func publish(b Broadcaster, event socket.Event) {
	if b != nil {
		b.Broadcast(event)
	}
}

// bindForm binds the request body into dst. A body that cannot be bound is a
// validation failure of model, same as a document failing its schema.
func bindForm(c *gin.Context, model string, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		return store.Invalid(model, err)
	}
	return nil
}
