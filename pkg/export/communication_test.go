package export

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"printplan-go/pkg/geom"
	"printplan-go/pkg/plan"
)

// startMessageServer runs a websocket endpoint forwarding every decoded
// message to the returned channel.
func startMessageServer(t *testing.T) (*httptest.Server, <-chan PathMessage) {
	t.Helper()
	received := make(chan PathMessage, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var msg PathMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received <- msg
		}
	}))
	return srv, received
}

func dialExporter(t *testing.T, srv *httptest.Server) *CommunicationExporter {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return NewCommunicationExporter(conn)
}

func nextMessage(t *testing.T, received <-chan PathMessage) PathMessage {
	t.Helper()
	select {
	case msg := <-received:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a forwarded message")
		return PathMessage{}
	}
}

func TestCommunicationExporterForwardsCalls(t *testing.T) {
	srv, received := startMessageServer(t)
	defer srv.Close()

	exporter := dialExporter(t, srv)
	defer exporter.Close()

	if err := exporter.WriteLayerStart(3, geom.Point3{X: 1000, Y: 2000, Z: 600}); err != nil {
		t.Fatalf("WriteLayerStart: %v", err)
	}
	if err := exporter.WriteExtrusion(geom.Point3{X: 5000}, 50, 0.1,
		400, 200, plan.FeatureWallOuter, false); err != nil {
		t.Fatalf("WriteExtrusion: %v", err)
	}
	if err := exporter.WriteTravelMove(geom.Point3{X: 9000}, 150, plan.FeatureTravel); err != nil {
		t.Fatalf("WriteTravelMove: %v", err)
	}
	if err := exporter.WriteLayerEnd(3, 600, 200); err != nil {
		t.Fatalf("WriteLayerEnd: %v", err)
	}

	start := nextMessage(t, received)
	if start.Type != "layer_start" || start.LayerIndex != 3 {
		t.Errorf("first message = %+v, want layer_start for layer 3", start)
	}
	if start.Session == "" {
		t.Error("message carries no session id")
	}
	if start.Position == nil || *start.Position != [3]int64{1000, 2000, 600} {
		t.Errorf("layer start position = %v", start.Position)
	}

	extrusion := nextMessage(t, received)
	if extrusion.Type != "extrusion" || extrusion.Feature != "WALL-OUTER" {
		t.Errorf("second message = %+v, want a WALL-OUTER extrusion", extrusion)
	}
	if extrusion.LayerIndex != 3 {
		t.Errorf("extrusion layer = %d, want the bracketing layer 3", extrusion.LayerIndex)
	}
	if extrusion.Session != start.Session {
		t.Error("session id changed between messages")
	}
	if extrusion.LineWidth != 400 || extrusion.LineThickness != 200 {
		t.Errorf("extrusion geometry = %d x %d", extrusion.LineWidth, extrusion.LineThickness)
	}

	travel := nextMessage(t, received)
	if travel.Type != "travel" || travel.Speed != 150 {
		t.Errorf("third message = %+v, want a travel at 150", travel)
	}

	end := nextMessage(t, received)
	if end.Type != "layer_end" || end.Z != 600 || end.Thickness != 200 {
		t.Errorf("fourth message = %+v, want layer_end with geometry", end)
	}
}

func TestCommunicationExporterOptionalCommands(t *testing.T) {
	srv, received := startMessageServer(t)
	defer srv.Close()

	exporter := dialExporter(t, srv)
	defer exporter.Close()

	if err := exporter.WriteTemperatureCommand(1, 215, true); err != nil {
		t.Fatalf("WriteTemperatureCommand: %v", err)
	}
	if err := exporter.WriteFanSpeed(80); err != nil {
		t.Fatalf("WriteFanSpeed: %v", err)
	}

	temp := nextMessage(t, received)
	if temp.Type != "temperature" || temp.Extruder != 1 || temp.Temperature != 215 || !temp.Wait {
		t.Errorf("temperature message = %+v", temp)
	}
	fan := nextMessage(t, received)
	if fan.Type != "fan" || fan.FanPercent != 80 {
		t.Errorf("fan message = %+v", fan)
	}
}

func TestCommunicationExporterSendFailure(t *testing.T) {
	srv, _ := startMessageServer(t)
	exporter := dialExporter(t, srv)
	srv.CloseClientConnections()
	srv.Close()

	// The connection is gone: every send from now on must fail, eventually
	// with a wrapped sink error once the breakage is observed.
	var err error
	for i := 0; i < 10 && err == nil; i++ {
		err = exporter.WriteLayerStart(0, geom.Point3{})
		time.Sleep(10 * time.Millisecond)
	}
	if err == nil {
		t.Fatal("sends on a closed connection never failed")
	}
}
