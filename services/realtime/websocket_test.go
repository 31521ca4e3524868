package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ServeWebsocket(t *testing.T) {
	reg, _ := setup()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		reg.Serve(strings.TrimPrefix(r.URL.Path, "/ws/"), conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/u1"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return reg.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, reg.SendTo("u1", map[string]string{"type": "new_message", "text": "hi"}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	msgType, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)
	assert.JSONEq(t, `{"type":"new_message","text":"hi"}`, string(data))

	// inbound frames are accepted and ignored
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("ping")))

	require.NoError(t, client.Close())
	require.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.False(t, reg.SendTo("u1", "late"))
}

func TestRegistry_ServeReplacesConnection(t *testing.T) {
	reg, _ := setup()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		reg.Serve("u1", conn)
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, func() bool { return reg.Len() == 1 }, time.Second, 5*time.Millisecond)

	second, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer second.Close()

	// the first connection gets closed by the server once replaced
	require.NoError(t, first.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = first.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	// the first connection's teardown must not drop the second mapping
	require.Eventually(t, func() bool { return reg.SendTo("u1", "hello") }, time.Second, 5*time.Millisecond)
	require.NoError(t, second.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := second.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(data))
	assert.Equal(t, 1, reg.Len())
}
