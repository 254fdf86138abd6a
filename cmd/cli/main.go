package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"acquire-server/internal/delivery/dto"
)

const (
	cliName    = "Acquire Status Viewer"
	cliVersion = "1.0.0"

	defaultServerAddr = "localhost:8080"
	pollInterval      = 2 * time.Second
)

// client polls a lobby or game's status endpoint and never issues a
// mutating request, per SPEC_FULL.md §4.13's read-only spectator
// requirement.
type client struct {
	httpBase string
	id       string
	ui       *UI
}

func main() {
	serverAddr := flag.String("server", defaultServerAddr, "server host:port")
	id := flag.String("id", "", "lobby or game ID to watch")
	flag.Parse()

	fmt.Printf("%s v%s\n", cliName, cliVersion)

	if *id == "" {
		fmt.Println("Usage: cli -id <lobbyOrGameID> [-server host:port]")
		os.Exit(1)
	}

	c := &client{
		httpBase: "http://" + *serverAddr,
		id:       *id,
		ui:       NewUI(),
	}

	for {
		c.refresh()
		time.Sleep(pollInterval)
	}
}

// refresh fetches the current snapshot and redraws the screen. Game
// status is tried first since it is the more common steady state;
// lobby status is the fallback while the game has not started.
func (c *client) refresh() {
	if status, ok := c.fetchGameStatus(); ok {
		c.ui.RenderGame(status)
		return
	}
	if status, ok := c.fetchLobbyStatus(); ok {
		c.ui.RenderLobby(status)
		return
	}
	c.ui.RenderError(fmt.Sprintf("no lobby or game found for id %q", c.id))
}

func (c *client) fetchGameStatus() (dto.GameStatusResponse, bool) {
	var status dto.GameStatusResponse
	if !c.getJSON("/game/"+c.id+"/status", &status) {
		return status, false
	}
	return status, true
}

func (c *client) fetchLobbyStatus() (dto.LobbyStatusResponse, bool) {
	var status dto.LobbyStatusResponse
	if !c.getJSON("/lobby/"+c.id+"/status", &status) {
		return status, false
	}
	return status, true
}

func (c *client) getJSON(path string, out interface{}) bool {
	resp, err := http.Get(c.httpBase + path)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	return json.NewDecoder(resp.Body).Decode(out) == nil
}
