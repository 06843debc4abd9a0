package preview

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tka-animator/internal/assets"
	"github.com/Faultbox/tka-animator/internal/config"
	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/playback"
	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/motion"
	"github.com/Faultbox/tka-animator/pkg/sequence"
)

func twoBeats() *sequence.Sequence {
	blue := motion.Descriptor{Type: motion.Pro, StartLoc: grid.South, EndLoc: grid.West, StartOri: motion.In, PropRotDir: motion.CW}
	red := motion.Descriptor{Type: motion.Anti, StartLoc: grid.North, EndLoc: grid.East, StartOri: motion.Out, PropRotDir: motion.CCW}
	seq := &sequence.Sequence{Beats: []sequence.Beat{
		{Letter: "A", Blue: blue, Red: red},
		{Letter: "B", Blue: blue, Red: red},
	}}
	seq.Resolve()
	return seq
}

type fixture struct {
	srv   *Server
	ctrl  *playback.Controller
	store *playback.Store
	ts    *httptest.Server
}

func newFixture(t *testing.T, initialize bool, tweaks ...func(*Options)) *fixture {
	t.Helper()
	store := playback.NewStore()
	ctrl := playback.NewController(playback.Options{Scheduler: frame.NewQueue()})
	if initialize {
		require.True(t, ctrl.Initialize(twoBeats(), store))
	}

	am := assets.NewManager()
	opts := OptionsFromConfig(config.Default())
	opts.Preview.PublicURL = "http://preview.example.test:8950/"
	for _, tweak := range tweaks {
		tweak(&opts)
	}
	srv := New(ctrl, store, am, opts)
	ts := httptest.NewServer(srv.Handler())

	t.Cleanup(func() {
		ts.Close()
		srv.Close()
		ctrl.Dispose()
		am.Close()
	})
	return &fixture{srv: srv, ctrl: ctrl, store: store, ts: ts}
}

func (f *fixture) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		initialize bool
		want       HealthStatus
		beats      int
	}{
		{"no sequence", false, HealthStatusDegraded, 0},
		{"loaded", true, HealthStatusHealthy, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.initialize)
			resp, err := http.Get(f.ts.URL + "/health")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.want, body.Status)
			assert.Equal(t, tt.beats, body.Details.Beats)
			assert.Equal(t, "stopped", body.Details.State)
			assert.Equal(t, Version, body.Version)
		})
	}
}

func TestHealthRejectsPost(t *testing.T) {
	f := newFixture(t, true)
	resp, err := http.Post(f.ts.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, true)
	req, err := http.NewRequest(http.MethodOptions, f.ts.URL+"/health", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestControlSocket(t *testing.T) {
	f := newFixture(t, true)
	conn := f.dial(t, "/ws/control")

	tests := []struct {
		name    string
		msg     string
		ok      bool
		errPart string
		beat    float64
	}{
		{"jump", `{"op":"jump","value":1.5}`, true, "", 1.5},
		{"next", `{"op":"next"}`, true, "", 2},
		{"prev upper case", `{"op":"PREV"}`, true, "", 1},
		{"unknown", `{"op":"rewind"}`, false, "unknown command", 0},
		{"malformed", `{"op":`, false, "malformed", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.msg)))
			var reply controlReply
			readJSON(t, conn, &reply)

			assert.Equal(t, tt.ok, reply.OK)
			if !tt.ok {
				assert.Contains(t, reply.Error, tt.errPart)
				assert.Nil(t, reply.Snapshot)
				return
			}
			require.NotNil(t, reply.Snapshot)
			assert.InDelta(t, tt.beat, reply.Snapshot.CurrentBeat, 1e-9)
		})
	}
}

func TestControlSpeedAndLoop(t *testing.T) {
	f := newFixture(t, true)
	conn := f.dial(t, "/ws/control")

	require.NoError(t, conn.WriteJSON(playback.Command{Op: playback.OpSpeed, Value: 9}))
	var reply controlReply
	readJSON(t, conn, &reply)
	require.True(t, reply.OK)
	assert.Equal(t, playback.MaxSpeed, reply.Snapshot.Speed)

	require.NoError(t, conn.WriteJSON(playback.Command{Op: playback.OpLoop, Enabled: true}))
	readJSON(t, conn, &reply)
	require.True(t, reply.OK)
	assert.True(t, reply.Snapshot.Loop)
	assert.True(t, f.ctrl.Snapshot().Loop)
}

func TestFramesSocketStreamsUpdates(t *testing.T) {
	f := newFixture(t, true)
	conn := f.dial(t, "/ws/frames")

	var first playback.Snapshot
	readJSON(t, conn, &first)
	assert.Equal(t, "AB", first.Word)
	assert.Equal(t, 2, first.TotalBeats)
	assert.Equal(t, 1, f.srv.Clients())

	f.ctrl.JumpToBeat(1.5)

	var next playback.Snapshot
	readJSON(t, conn, &next)
	assert.InDelta(t, 1.5, next.CurrentBeat, 1e-9)
	assert.Equal(t, 1, next.Frame.BeatIndex)
	assert.Equal(t, "B", next.Frame.Letter)
	assert.InDelta(t, 0.5, next.Frame.Progress, 1e-9)
	assert.Greater(t, next.Version, first.Version)
}

func TestFramesClientRemovedOnClose(t *testing.T) {
	f := newFixture(t, true)
	conn := f.dial(t, "/ws/frames")
	var first playback.Snapshot
	readJSON(t, conn, &first)
	require.Equal(t, 1, f.srv.Clients())

	conn.Close()
	assert.Eventually(t, func() bool { return f.srv.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSnapshotPNG(t *testing.T) {
	f := newFixture(t, true)
	f.ctrl.JumpToBeat(0.5)

	resp, err := http.Get(f.ts.URL + "/snapshot.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	size := config.Default().Preview.SnapshotSize
	assert.Equal(t, size, img.Bounds().Dx())
	assert.Equal(t, size, img.Bounds().Dy())
}

func TestSnapshotMissingProp(t *testing.T) {
	f := newFixture(t, true, func(o *Options) { o.BlueProp = "missing.png" })

	resp, err := http.Get(f.ts.URL + "/snapshot.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestQRCode(t *testing.T) {
	f := newFixture(t, true)
	resp, err := http.Get(f.ts.URL + "/qr.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, QRSize, img.Bounds().Dx())
}

func TestPublicURL(t *testing.T) {
	f := newFixture(t, false)
	assert.Equal(t, "http://preview.example.test:8950/", f.srv.PublicURL())

	f.srv.opts.Preview.PublicURL = ""
	f.srv.opts.Preview.Addr = ":9001"
	url := f.srv.PublicURL()
	assert.True(t, strings.HasPrefix(url, "http://"), url)
	assert.True(t, strings.HasSuffix(url, ":9001/"), url)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{2*time.Minute + 3*time.Second, "2m 3s"},
		{time.Hour + 2*time.Minute, "1h 2m 0s"},
		{49 * time.Hour, "2d 1h 0m 0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d))
	}
}

func TestClientQueueKeepsNewestFrames(t *testing.T) {
	c := newClient(nil)
	for v := uint64(1); v <= 10; v++ {
		c.enqueue(outFrame{version: v})
	}
	require.Len(t, c.out, sendBuffer)

	var got []uint64
	for len(c.out) > 0 {
		got = append(got, (<-c.out).version)
	}
	assert.Equal(t, []uint64{7, 8, 9, 10}, got)
}

func TestBroadcastDoesNotWaitForSlowClient(t *testing.T) {
	f := newFixture(t, true)

	// No writer runs for this client, so its queue is never drained.
	stuck := newClient(nil)
	f.srv.mu.Lock()
	f.srv.clients[stuck] = true
	f.srv.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			f.ctrl.JumpToBeat(float64(i%2) + 0.25)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publishing blocked on a client that is not reading")
	}

	require.Len(t, stuck.out, sendBuffer)
	var newest uint64
	for len(stuck.out) > 0 {
		newest = (<-stuck.out).version
	}
	assert.Equal(t, f.ctrl.Snapshot().Version, newest)
}
