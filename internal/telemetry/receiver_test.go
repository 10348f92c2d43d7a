package telemetry

import (
	"fmt"
	"net"
	"testing"
	"time"
)

// dialReceiver opens a UDP sender aimed at the receiver's socket.
func dialReceiver(t *testing.T, r *Receiver) *net.UDPConn {
	t.Helper()
	conn, err := net.DialUDP("udp", nil, r.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("failed to dial receiver: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// drainUntil polls Drain until n datagrams arrived or the deadline
// passes. UDP on loopback does not reorder, so arrival order is
// send order.
func drainUntil(t *testing.T, r *Receiver, n int) [][]byte {
	t.Helper()
	var got [][]byte
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		got = append(got, r.Drain()...)
		if len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d datagrams, got %d before timeout", n, len(got))
	return nil
}

func TestReceiverDeliversDatagrams(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket test in short mode")
	}

	r, err := Listen("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer r.Close()

	sender := dialReceiver(t, r)
	payloads := []string{"first", "second", "third"}
	for _, p := range payloads {
		if _, err := sender.Write([]byte(p)); err != nil {
			t.Fatalf("failed to send: %v", err)
		}
	}

	got := drainUntil(t, r, len(payloads))
	for i, want := range payloads {
		if string(got[i]) != want {
			t.Errorf("datagram %d: expected %q, got %q", i, want, got[i])
		}
	}
}

func TestReceiverDrainIsNonBlocking(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket test in short mode")
	}

	r, err := Listen("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer r.Close()

	start := time.Now()
	if got := r.Drain(); got != nil {
		t.Errorf("expected nil from an empty queue, got %d entries", len(got))
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Drain blocked for %v", elapsed)
	}
}

func TestReceiverBindFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket test in short mode")
	}

	// Occupy a port, then try to bind it again.
	occupied, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to occupy a port: %v", err)
	}
	defer occupied.Close()
	port := occupied.LocalAddr().(*net.UDPAddr).Port

	r, err := Listen("127.0.0.1", port)
	if err == nil {
		r.Close()
		t.Fatal("expected an error binding an occupied port")
	}
	if r != nil {
		t.Errorf("expected nil receiver on bind failure, got %+v", r)
	}
}

func TestReceiverCloseTwice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping socket test in short mode")
	}

	r, err := Listen("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}

	start := time.Now()
	if err := r.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("second close took %v, expected an immediate return", elapsed)
	}
}

func TestReceiverQueueKeepsNewest(t *testing.T) {
	// Exercises the overflow policy directly: when the queue is full,
	// the oldest entry makes room for the newest.
	r := &Receiver{queue: make(chan []byte, 4)}
	for i := 0; i < 10; i++ {
		r.enqueue([]byte(fmt.Sprintf("%d", i)))
	}

	got := r.Drain()
	if len(got) != 4 {
		t.Fatalf("expected 4 queued datagrams, got %d", len(got))
	}
	want := []string{"6", "7", "8", "9"}
	for i := range want {
		if string(got[i]) != want[i] {
			t.Errorf("slot %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
