// agentchat is a terminal front-end for the support-agent backend. It is
// handed an already-issued access token (the browser handles federated
// login); set AGENT_TOKEN or pass -token.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Lila-pv/agente-ia-demo/client"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "backend base URL")
	token := flag.String("token", os.Getenv("AGENT_TOKEN"), "access token from the identity provider")
	flag.Parse()

	if *token == "" {
		log.Fatal("no access token: pass -token or set AGENT_TOKEN")
	}

	session := client.New(*serverURL)
	session.SignIn(*token)

	ctx := context.Background()
	if err := session.LoadHistory(ctx); err != nil {
		log.Fatalf("failed to load history: %v", err)
	}
	render(session)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		input := scanner.Text()
		if input == "/quit" {
			session.SignOut()
			return
		}
		if err := session.SendMessage(ctx, input); err != nil {
			fmt.Printf("ERROR: %s\n", session.LastError())
		} else {
			render(session)
		}
		fmt.Print("> ")
	}
}

func render(s *client.ChatSession) {
	for _, msg := range s.Messages() {
		prefix := "you"
		if msg.Sender == "agent" {
			prefix = "agent"
		}
		fmt.Printf("[%s] %s\n", prefix, msg.Text)
	}
}
