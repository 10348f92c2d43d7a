package telemetry

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultTelemetryPort is where the hand tracker sends landmark
	// and prediction messages unless told otherwise.
	DefaultTelemetryPort = 5005

	// DefaultVideoPort is where the hand tracker sends JPEG frames.
	DefaultVideoPort = 5006
)

const (
	// largest payload a single UDP datagram can carry; the producer
	// caps its JPEG frames well below this
	maxDatagram = 65507

	// how long a blocked read waits before re-checking for shutdown
	readTimeout = time.Second

	// queued datagrams per channel; the consumer drains every tick,
	// so the cap only matters while the consumer stalls
	queueDepth = 256
)

// Receiver owns one UDP socket and queues whole datagrams for a
// consumer that drains at its own pace. Reception never blocks on the
// consumer: when the queue is full, the oldest datagram is dropped so
// the newest always lands. The receive loop never parses payloads.
type Receiver struct {
	conn  *net.UDPConn
	queue chan []byte

	die     chan struct{}
	dieOnce sync.Once
	done    chan struct{}
}

// Listen binds a UDP socket on addr:port and starts the receive loop.
// A bind failure is returned to the caller and leaves no goroutine
// behind; the caller decides whether to run without the channel.
func Listen(addr string, port int) (*Receiver, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s port %d", addr, port)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "bind %s port %d", addr, port)
	}

	r := &Receiver{
		conn:  conn,
		queue: make(chan []byte, queueDepth),
		die:   make(chan struct{}),
		done:  make(chan struct{}),
	}
	go r.readLoop()
	return r, nil
}

func (r *Receiver) readLoop() {
	defer close(r.done)

	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-r.die:
			return
		default:
		}

		r.conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			select {
			case <-r.die:
				return
			default:
			}
			// transient socket error, keep listening
			continue
		}
		if n == 0 {
			continue
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		r.enqueue(datagram)
	}
}

func (r *Receiver) enqueue(datagram []byte) {
	for {
		select {
		case r.queue <- datagram:
			return
		default:
		}
		// full: make room by discarding the oldest entry
		select {
		case <-r.queue:
		default:
		}
	}
}

// Drain removes and returns everything queued, oldest first, without
// blocking.
func (r *Receiver) Drain() [][]byte {
	var out [][]byte
	for {
		select {
		case d := <-r.queue:
			out = append(out, d)
		default:
			return out
		}
	}
}

// Close stops the receive loop and closes the socket, waiting for the
// loop to exit, bounded by the read timeout. Calling Close again
// returns immediately.
func (r *Receiver) Close() error {
	closed := false
	r.dieOnce.Do(func() {
		close(r.die)
		closed = true
	})
	if !closed {
		return nil
	}

	err := r.conn.Close()
	select {
	case <-r.done:
	case <-time.After(readTimeout + time.Second):
	}
	return err
}

// LocalAddr returns the address the receiver is bound to.
func (r *Receiver) LocalAddr() net.Addr {
	return r.conn.LocalAddr()
}
