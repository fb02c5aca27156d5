// Package main - spectator
// Terminal client that tails a running arena server's WebSocket feed
// and prints tournament progress events as they happen.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	raw := flag.Bool("raw", false, "Print raw JSON instead of formatted lines")
	flag.Parse()

	fmt.Println("=========================================")
	fmt.Println("ARENA SPECTATOR")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", *serverURL)
	fmt.Println("=========================================")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, disconnecting...")
		cancel()
	}()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, *serverURL, nil)
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Fatalf("Read failed: %v", err)
		}
		if *raw {
			fmt.Println(string(message))
			continue
		}
		printEvent(message)
	}
}

// feedEvent mirrors the wire shape of a tournament event; the payload
// stays raw because its structure depends on the event type.
type feedEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`
	RunID     string          `json:"run_id"`
	Payload   json.RawMessage `json:"payload"`
}

func printEvent(message []byte) {
	var e feedEvent
	if err := json.Unmarshal(message, &e); err != nil {
		fmt.Println(string(message))
		return
	}

	prefix := fmt.Sprintf("[%s] %-18s run=%.8s", e.Timestamp.Format("15:04:05"), e.Type, e.RunID)

	switch e.Type {
	case "MATCH_FINISHED":
		var m struct {
			NameA  string  `json:"name_a"`
			NameB  string  `json:"name_b"`
			ScoreA float64 `json:"score_a"`
			ScoreB float64 `json:"score_b"`
		}
		if err := json.Unmarshal(e.Payload, &m); err == nil {
			fmt.Printf("%s %s %.0f - %.0f %s\n", prefix, m.NameA, m.ScoreA, m.ScoreB, m.NameB)
			return
		}
	case "RUN_STARTED":
		var p struct {
			Roster  []string `json:"roster"`
			Rounds  int      `json:"rounds"`
			Matches int      `json:"matches"`
		}
		if err := json.Unmarshal(e.Payload, &p); err == nil {
			fmt.Printf("%s %d strategies, %d matches, %d rounds each\n", prefix, len(p.Roster), p.Matches, p.Rounds)
			return
		}
	case "RUN_COMPLETED", "STANDINGS_UPDATED":
		var standings []struct {
			Rank    int     `json:"rank"`
			Name    string  `json:"name"`
			Average float64 `json:"average"`
		}
		if err := json.Unmarshal(e.Payload, &standings); err == nil && len(standings) > 0 {
			fmt.Printf("%s leader: %s (avg %.2f)\n", prefix, standings[0].Name, standings[0].Average)
			return
		}
	}
	fmt.Println(prefix)
}
