package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"silentaid/config"
)

var (
	dialContext    = (&net.Dialer{}).DialContext
	newBufioReader = bufio.NewReader
	newBufioWriter = bufio.NewWriter
)

// ValkeyStore is an optional Valkey/Redis backend. Each document is stored as
// a JSON string and its id is pushed onto a per-collection list, so the list
// order is newest first without any sorting.
type ValkeyStore struct {
	addr     string
	password string
	db       int
	prefix   string
	timeout  time.Duration
}

func NewValkeyStore(cfg config.ValkeyConfig) (*ValkeyStore, error) {
	store := &ValkeyStore{
		addr:     cfg.Addr,
		password: cfg.Password,
		db:       cfg.DB,
		prefix:   cfg.Prefix,
		timeout:  5 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := store.do(ctx, "PING"); err != nil {
		return nil, fmt.Errorf("valkey ping failed: %w", err)
	}

	return store, nil
}

func (v *ValkeyStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()
	stored := make(Document, len(doc)+2)
	for key, value := range doc {
		stored[key] = value
	}
	stored["id"] = id
	stored["createdAt"] = serverTimestamp()

	payload, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("error encoding document: %w", err)
	}

	if _, err := v.do(ctx, "SET", v.docKey(collection, id), string(payload)); err != nil {
		return "", err
	}
	if _, err := v.do(ctx, "LPUSH", v.collectionKey(collection), id); err != nil {
		return "", err
	}
	return id, nil
}

func (v *ValkeyStore) Get(ctx context.Context, collection, id string) (Document, error) {
	payload, err := v.do(ctx, "GET", v.docKey(collection, id))
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, ErrNotFound
	}

	doc := Document{}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return doc, nil
}

func (v *ValkeyStore) List(ctx context.Context, collection string, query Query) ([]Document, error) {
	ids, err := v.doStrings(ctx, "LRANGE", v.collectionKey(collection), "0", "-1")
	if err != nil {
		return nil, err
	}

	results := []Document{}
	for _, id := range ids {
		doc, err := v.Get(ctx, collection, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if query.Field != "" && fmt.Sprint(doc[query.Field]) != query.Value {
			continue
		}
		results = append(results, doc)
		if query.Limit > 0 && len(results) == query.Limit {
			break
		}
	}
	return results, nil
}

func (v *ValkeyStore) Close() error {
	return nil
}

func (v *ValkeyStore) docKey(collection, id string) string {
	return fmt.Sprintf("%s:doc:%s:%s", v.prefix, collection, id)
}

func (v *ValkeyStore) collectionKey(collection string) string {
	return fmt.Sprintf("%s:col:%s", v.prefix, collection)
}

func (v *ValkeyStore) do(ctx context.Context, args ...string) (string, error) {
	reply, err := v.roundTrip(ctx, args...)
	if err != nil {
		return "", err
	}
	value, ok := reply.(string)
	if !ok && reply != nil {
		return "", fmt.Errorf("unexpected reply type for %s", args[0])
	}
	return value, nil
}

func (v *ValkeyStore) doStrings(ctx context.Context, args ...string) ([]string, error) {
	reply, err := v.roundTrip(ctx, args...)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, nil
	}
	values, ok := reply.([]string)
	if !ok {
		return nil, fmt.Errorf("unexpected reply type for %s", args[0])
	}
	return values, nil
}

func (v *ValkeyStore) roundTrip(ctx context.Context, args ...string) (interface{}, error) {
	conn, err := dialContext(ctx, "tcp", v.addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(v.timeout))
	}

	reader := newBufioReader(conn)
	writer := newBufioWriter(conn)

	if v.password != "" {
		if err := writeCommand(writer, "AUTH", v.password); err != nil {
			return nil, err
		}
		if err := writer.Flush(); err != nil {
			return nil, err
		}
		if _, err := readReply(reader); err != nil {
			return nil, err
		}
	}

	if v.db > 0 {
		if err := writeCommand(writer, "SELECT", strconv.Itoa(v.db)); err != nil {
			return nil, err
		}
		if err := writer.Flush(); err != nil {
			return nil, err
		}
		if _, err := readReply(reader); err != nil {
			return nil, err
		}
	}

	if err := writeCommand(writer, args...); err != nil {
		return nil, err
	}
	if err := writer.Flush(); err != nil {
		return nil, err
	}
	return readReply(reader)
}

func writeCommand(writer *bufio.Writer, args ...string) error {
	if _, err := writer.WriteString(fmt.Sprintf("*%d\r\n", len(args))); err != nil {
		return err
	}
	for _, arg := range args {
		if _, err := writer.WriteString(fmt.Sprintf("$%d\r\n%s\r\n", len(arg), arg)); err != nil {
			return err
		}
	}
	return nil
}

func readReply(reader *bufio.Reader) (interface{}, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimSuffix(line, "\r\n")
	if line == "" {
		return nil, fmt.Errorf("empty response")
	}

	switch line[0] {
	case '+':
		return line[1:], nil
	case '-':
		return nil, fmt.Errorf("valkey error: %s", line[1:])
	case ':':
		return line[1:], nil
	case '$':
		return readBulk(reader, line[1:])
	case '*':
		count, err := strconv.Atoi(line[1:])
		if err != nil {
			return nil, fmt.Errorf("invalid array length: %w", err)
		}
		if count == -1 {
			return nil, nil
		}
		values := make([]string, 0, count)
		for i := 0; i < count; i++ {
			element, err := readReply(reader)
			if err != nil {
				return nil, err
			}
			value, ok := element.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected array element")
			}
			values = append(values, value)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("unexpected response: %s", line)
	}
}

func readBulk(reader *bufio.Reader, lengthStr string) (interface{}, error) {
	length, err := strconv.Atoi(lengthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid bulk length: %w", err)
	}
	if length == -1 {
		return "", nil
	}
	buffer := make([]byte, length+2)
	if _, err := io.ReadFull(reader, buffer); err != nil {
		return nil, err
	}
	return strings.TrimSuffix(string(buffer), "\r\n"), nil
}
