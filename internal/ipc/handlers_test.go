package ipc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakeManager struct {
	current string
	cmds    []Command
}

func (f *fakeManager) CurrentWallpaper() string   { return f.current }
func (f *fakeManager) EnqueueCommand(cmd Command) { f.cmds = append(f.cmds, cmd) }

func request(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestStatusHandler(t *testing.T) {
	m := &fakeManager{current: "/tmp/sunset.png"}
	c, rec := request(t, http.MethodGet, "/status", "")

	if err := statusHandler(m)(c); err != nil {
		t.Fatalf("statusHandler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling status response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want \"ok\"", resp.Status)
	}
	if resp.CurrentWallpaper != "/tmp/sunset.png" {
		t.Errorf("CurrentWallpaper = %q, want %q", resp.CurrentWallpaper, "/tmp/sunset.png")
	}
	if resp.Version == "" {
		t.Error("Version is empty")
	}
	if len(m.cmds) != 0 {
		t.Errorf("status enqueued %d commands, want 0", len(m.cmds))
	}
}

func TestStopAndNextHandlersEnqueue(t *testing.T) {
	cases := []struct {
		path    string
		handler func(ManagerInterface) echo.HandlerFunc
		want    CommandType
	}{
		{"/stop", stopHandler, CommandStop},
		{"/next", nextHandler, CommandNext},
	}

	for _, tc := range cases {
		m := &fakeManager{}
		c, rec := request(t, http.MethodPost, tc.path, "")

		if err := tc.handler(m)(c); err != nil {
			t.Fatalf("%s handler returned error: %v", tc.path, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", tc.path, rec.Code, http.StatusOK)
		}
		if len(m.cmds) != 1 || m.cmds[0].Type != tc.want {
			t.Errorf("%s enqueued %+v, want one %q command", tc.path, m.cmds, tc.want)
		}
	}
}

func TestLoadHandler(t *testing.T) {
	m := &fakeManager{}
	c, rec := request(t, http.MethodPost, "/load", `["a.png","b.jpg"]`)

	if err := loadHandler(m)(c); err != nil {
		t.Fatalf("loadHandler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(m.cmds) != 1 {
		t.Fatalf("enqueued %d commands, want 1", len(m.cmds))
	}
	cmd := m.cmds[0]
	if cmd.Type != CommandLoad {
		t.Errorf("command type = %q, want %q", cmd.Type, CommandLoad)
	}
	if len(cmd.Args) != 2 || cmd.Args[0] != "a.png" || cmd.Args[1] != "b.jpg" {
		t.Errorf("command args = %v, want [a.png b.jpg]", cmd.Args)
	}
}

func TestLoadHandlerRejectsBadJSON(t *testing.T) {
	m := &fakeManager{}
	c, rec := request(t, http.MethodPost, "/load", `{"not":"an array"}`)

	if err := loadHandler(m)(c); err != nil {
		t.Fatalf("loadHandler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(m.cmds) != 0 {
		t.Errorf("bad request enqueued %d commands, want 0", len(m.cmds))
	}
}
