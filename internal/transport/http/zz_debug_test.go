package http

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

func TestZZDebugRawUpgrade(t *testing.T) {
	ts, _ := newTestServer(t)

	addr := strings.TrimPrefix(ts.URL, "http://")
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	req := "GET /ws HTTP/1.1\r\n" +
		"Host: " + addr + "\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
		"Sec-WebSocket-Version: 13\r\n\r\n"
	if _, err := conn.Write([]byte(req)); err != nil {
		t.Fatalf("write: %v", err)
	}

	br := bufio.NewReader(conn)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		line, err := br.ReadString('\n')
		fmt.Printf("HDR: %q err=%v\n", line, err)
		if err != nil || line == "\r\n" {
			break
		}
	}

	// send a masked text frame with the join payload
	payload := []byte(`{"type":"join","data":{"name":"alice","room":"general"}}`)
	frame := []byte{0x81, byte(0x80 | len(payload)), 0, 0, 0, 0}
	frame = append(frame, payload...)
	if _, err := conn.Write(frame); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	buf := make([]byte, 4096)
	for i := 0; i < 3; i++ {
		n, err := br.Read(buf)
		fmt.Printf("RAW(%d) err=%v: %q\n", n, err, string(buf[:n]))
		if err != nil {
			break
		}
	}
}
