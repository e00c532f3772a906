package transport

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gigex-project/gigex-go/pkg/status"
)

func TestExchange(t *testing.T) {
	ln, port := testListener(t)
	response := []byte{0xf7, 0x00, 0x12, 0x34}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		conn.Write(response)
	}()

	conn, err := Open(context.Background(), Config{}, testCard(t), KindTCP, port, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	resp := make([]byte, 4)
	if err := conn.Exchange([]byte{0xf7, 0x05, 0x00, 0x00}, resp, true, time.Second); err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if !bytes.Equal(resp, response) {
		t.Errorf("response = % x, want % x", resp, response)
	}
}

func TestExchangeFireAndForget(t *testing.T) {
	ln, port := testListener(t)
	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		received <- buf
	}()

	conn, err := Open(context.Background(), Config{}, testCard(t), KindTCP, port, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	request := []byte{0xf8, 0x00, 0x00, 0x00}
	if err := conn.Exchange(request, nil, false, time.Second); err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}

	select {
	case got := <-received:
		if !bytes.Equal(got, request) {
			t.Errorf("server received % x, want % x", got, request)
		}
	case <-time.After(time.Second):
		t.Fatal("server never received the request")
	}
}

func TestExchangeResponseTimeout(t *testing.T) {
	ln, port := testListener(t)
	done := make(chan struct{})
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4)
		conn.Read(buf)
		<-done
	}()
	defer close(done)

	conn, err := Open(context.Background(), Config{}, testCard(t), KindTCP, port, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	err = conn.Exchange([]byte{0xf7, 0x05, 0x00, 0x00}, make([]byte, 4), true, 200*time.Millisecond)
	if status.CodeOf(err) != status.Timeout {
		t.Errorf("code = %v, want Timeout", status.CodeOf(err))
	}
}
