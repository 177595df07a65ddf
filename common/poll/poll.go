// Package poll waits for readability on a set of descriptors so a tick loop can sleep
// until there is work instead of spinning.
package poll

import (
	"time"

	E "github.com/sagernet/netstream/common/exceptions"
)

var ErrClosed = E.New("poller closed")

func timeoutMillis(timeout time.Duration) int {
	if timeout < 0 {
		return -1
	}
	return int((timeout + time.Millisecond - 1) / time.Millisecond)
}
