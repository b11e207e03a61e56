package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sakshamg567/blockfall/logger"
)

var actions = []string{"move-left", "move-right", "move-down", "rotate", "rotate-counter", "hard-drop", "hold"}

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	addr := flag.String("addr", "localhost:3000", "server host:port")
	bots := flag.Int("n", 2, "number of bots (1-4)")
	roomID := flag.String("room", "", "join an existing room instead of creating one")
	moves := flag.Int("moves", 500, "actions per bot")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()
	logger.Init("loadbot", *level)

	if *bots < 1 || *bots > 4 {
		fatal("bots must be between 1 and 4, got %d", *bots)
	}

	if *roomID == "" {
		*roomID = createRoom(*addr)
		logger.Info("created room %s", *roomID)
	} else {
		logger.Info("using existing room %s", *roomID)
	}

	joined := make(chan struct{}, *bots)
	var wg sync.WaitGroup
	for i := 0; i < *bots; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			play(*addr, *roomID, fmt.Sprintf("bot%d", i), i == 0, *bots, *moves, joined)
		}()
	}
	wg.Wait()
}

func fatal(format string, v ...interface{}) {
	logger.Error(format, v...)
	os.Exit(1)
}

func createRoom(addr string) string {
	resp, err := http.Post("http://"+addr+"/room/create", "application/json", nil)
	if err != nil {
		fatal("create room: %v", err)
	}
	defer resp.Body.Close()

	var res struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		fatal("decode room creation response: %v", err)
	}
	return res.RoomID
}

func send(conn *websocket.Conn, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(WSMessage{Type: event, Data: raw})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// play joins the room, lets the host start once everyone is in, then
// sends random actions until the match ends or the budget runs out.
func play(addr, roomID, name string, host bool, total, moves int, joined chan struct{}) {
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		logger.Error("%s: connect error: %v", name, err)
		return
	}
	defer conn.Close()

	started := make(chan struct{})
	ended := make(chan struct{})
	go func() {
		defer close(ended)
		var once sync.Once
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg WSMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			switch msg.Type {
			case "room-joined":
				joined <- struct{}{}
			case "game-started", "game-restarted":
				once.Do(func() { close(started) })
			case "game-update":
				var upd struct {
					GameEnded bool    `json:"gameEnded"`
					Winner    *string `json:"winner"`
				}
				if json.Unmarshal(msg.Data, &upd) == nil && upd.GameEnded {
					winner := "nobody"
					if upd.Winner != nil {
						winner = *upd.Winner
					}
					logger.Info("%s: match over, winner %s", name, winner)
					return
				}
			case "error":
				logger.Warn("%s: server error %s", name, msg.Data)
			}
		}
	}()

	if err := send(conn, "join-room", map[string]string{"room": roomID, "playerName": name}); err != nil {
		logger.Error("%s: join error: %v", name, err)
		return
	}
	logger.Info("%s joined", name)

	if host {
		for i := 0; i < total; i++ {
			<-joined
		}
		if err := send(conn, "start-game", map[string]string{"room": roomID}); err != nil {
			logger.Error("%s: start error: %v", name, err)
			return
		}
	}

	select {
	case <-started:
	case <-ended:
		return
	case <-time.After(30 * time.Second):
		logger.Error("%s: match never started", name)
		return
	}

	for i := 0; i < moves; i++ {
		select {
		case <-ended:
			return
		default:
		}
		action := actions[rand.IntN(len(actions))]
		if err := send(conn, "game-action", map[string]string{"room": roomID, "action": action}); err != nil {
			logger.Error("%s: write error: %v", name, err)
			return
		}
		time.Sleep(time.Duration(50+rand.IntN(200)) * time.Millisecond)
	}
	logger.Info("%s finished sending actions", name)
}
