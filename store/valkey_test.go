package store

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"silentaid/config"

	"github.com/stretchr/testify/assert"
)

// fakeValkey is a minimal RESP server backing the store tests. It understands
// just the commands ValkeyStore issues.
type fakeValkey struct {
	listener net.Listener

	mu    sync.Mutex
	docs  map[string]string
	lists map[string][]string
}

func newFakeValkey(t *testing.T) *fakeValkey {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)

	server := &fakeValkey{
		listener: listener,
		docs:     make(map[string]string),
		lists:    make(map[string][]string),
	}
	go server.serve()
	t.Cleanup(func() { listener.Close() })
	return server
}

func (f *fakeValkey) addr() string {
	return f.listener.Addr().String()
}

func (f *fakeValkey) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeValkey) handle(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	for {
		args, err := readCommand(reader)
		if err != nil {
			return
		}
		conn.Write([]byte(f.respond(args)))
	}
}

func readCommand(reader *bufio.Reader) ([]string, error) {
	header, err := reader.ReadString('\n')
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(strings.TrimSuffix(header, "\r\n")[1:])
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if _, err := reader.ReadString('\n'); err != nil {
			return nil, err
		}
		arg, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		args = append(args, strings.TrimSuffix(arg, "\r\n"))
	}
	return args, nil
}

func (f *fakeValkey) respond(args []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch strings.ToUpper(args[0]) {
	case "PING":
		return "+PONG\r\n"
	case "SET":
		f.docs[args[1]] = args[2]
		return "+OK\r\n"
	case "GET":
		value, found := f.docs[args[1]]
		if !found {
			return "$-1\r\n"
		}
		return fmt.Sprintf("$%d\r\n%s\r\n", len(value), value)
	case "LPUSH":
		f.lists[args[1]] = append([]string{args[2]}, f.lists[args[1]]...)
		return fmt.Sprintf(":%d\r\n", len(f.lists[args[1]]))
	case "LRANGE":
		values := f.lists[args[1]]
		reply := fmt.Sprintf("*%d\r\n", len(values))
		for _, value := range values {
			reply += fmt.Sprintf("$%d\r\n%s\r\n", len(value), value)
		}
		return reply
	default:
		return "-ERR unknown command\r\n"
	}
}

func newTestValkeyStore(t *testing.T) *ValkeyStore {
	t.Helper()
	server := newFakeValkey(t)
	valkey, err := NewValkeyStore(config.ValkeyConfig{Addr: server.addr(), Prefix: "test"})
	assert.NoError(t, err)
	return valkey
}

func TestNewValkeyStorePingFailure(t *testing.T) {
	_, err := NewValkeyStore(config.ValkeyConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestValkeyStoreInsertAndGet(t *testing.T) {
	valkey := newTestValkeyStore(t)
	ctx := context.Background()

	id, err := valkey.Insert(ctx, "alerts", Document{"userId": "u1", "status": "NEW"})
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	doc, err := valkey.Get(ctx, "alerts", id)
	assert.NoError(t, err)
	assert.Equal(t, id, doc["id"])
	assert.Equal(t, "u1", doc["userId"])
	assert.NotNil(t, doc["createdAt"])
}

func TestValkeyStoreGetNotFound(t *testing.T) {
	valkey := newTestValkeyStore(t)

	_, err := valkey.Get(context.Background(), "alerts", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValkeyStoreListNewestFirst(t *testing.T) {
	valkey := newTestValkeyStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := valkey.Insert(ctx, "alerts", Document{"seq": i})
		assert.NoError(t, err)
	}

	docs, err := valkey.List(ctx, "alerts", Query{})
	assert.NoError(t, err)
	assert.Len(t, docs, 3)
	// JSON round-trip turns numbers into float64.
	assert.Equal(t, float64(2), docs[0]["seq"])
	assert.Equal(t, float64(0), docs[2]["seq"])
}

func TestValkeyStoreListFilterAndLimit(t *testing.T) {
	valkey := newTestValkeyStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		user := "u1"
		if i%2 == 1 {
			user = "u2"
		}
		_, err := valkey.Insert(ctx, "contacts", Document{"userId": user, "seq": i})
		assert.NoError(t, err)
	}

	docs, err := valkey.List(ctx, "contacts", Query{Field: "userId", Value: "u1", Limit: 1})
	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, float64(2), docs[0]["seq"])
}

func TestWriteCommand(t *testing.T) {
	var buffer bytes.Buffer
	writer := bufio.NewWriter(&buffer)
	assert.NoError(t, writeCommand(writer, "SET", "key", "value"))
	assert.NoError(t, writer.Flush())
	assert.Equal(t, "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n", buffer.String())
}

func TestReadReply(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected interface{}
		wantErr  bool
	}{
		{"simple string", "+OK\r\n", "OK", false},
		{"integer", ":42\r\n", "42", false},
		{"bulk string", "$5\r\nhello\r\n", "hello", false},
		{"nil bulk", "$-1\r\n", "", false},
		{"array", "*2\r\n$1\r\na\r\n$1\r\nb\r\n", []string{"a", "b"}, false},
		{"nil array", "*-1\r\n", nil, false},
		{"error reply", "-ERR boom\r\n", nil, true},
		{"garbage", "?what\r\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := readReply(bufio.NewReader(strings.NewReader(tt.input)))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, reply)
		})
	}
}
