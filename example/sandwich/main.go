package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formdialog/agent"
	"github.com/tbxark/formdialog/prompts"
)

func main() {
	conf := flag.String("config", "", "path to config file; without one the form runs offline")
	verbose := flag.Bool("v", false, "log every turn")
	flag.Parse()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	err = startApp(context.Background(), config)
	if err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func newFlow(ctx context.Context, config *Config) (*agent.FormFlow[Sandwich], error) {
	var cm model.ToolCallingChatModel
	if config.APIKey != "" {
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  config.APIKey,
			Model:   config.Model,
			BaseURL: config.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		cm = chatModel
	}
	form, err := newSandwichForm(cm, config.SessionCacheSize)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return agent.NewFormFlow(form, agent.WithManager[Sandwich](&SandwichOrderManager{}))
	}
	return agent.NewToolBasedFormFlow(form, cm, agent.WithManager[Sandwich](&SandwichOrderManager{}))
}

func startApp(ctx context.Context, config *Config) error {
	flow, err := newFlow(ctx, config)
	if err != nil {
		return err
	}
	sessions, err := agent.NewLRUSessionStore[Sandwich](config.SessionCacheSize)
	if err != nil {
		return err
	}
	historyStore := agent.NewMemoryHistoryStore(agent.KeepSystemLastNTrimmer{N: config.HistorySize})
	orderAgent := agent.NewAgent(
		"SandwichOrder",
		"An agent that takes sandwich orders via conversation",
		flow,
		sessions,
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: orderAgent,
	})

	reader := bufio.NewReader(os.Stdin)
	readLine := func() (string, error) {
		fmt.Print("You: ")
		input, rErr := reader.ReadString('\n')
		return strings.TrimSpace(input), rErr
	}

	chatCtx := agent.WithSessionKey(ctx, agent.NewSessionKey())
	fmt.Println("Say hello to start your order.")
	for {
		input, rErr := readLine()
		if rErr != nil {
			fmt.Println("Input closed. Bye.")
			return nil
		}
		history, hErr := historyStore.Append(chatCtx, schema.UserMessage(input))
		if hErr != nil {
			return hErr
		}
		iter := runner.Run(chatCtx, history)
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				return event.Err
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				return mErr
			}
			if _, apErr := historyStore.Append(chatCtx, msg); apErr != nil {
				return apErr
			}
			fmt.Printf("\nAssistant: %v\n======\n", msg.Content)
		}

		sess, sErr := sessions.Read(chatCtx)
		if sErr != nil {
			return sErr
		}
		if sess == nil || !sess.Closed() {
			continue
		}
		if err := forgetOrder(chatCtx, historyStore, sessions); err != nil {
			return err
		}

		again, aErr := askAgain(readLine)
		if aErr != nil || !again {
			fmt.Println("Bye.")
			return nil
		}
		chatCtx = agent.WithSessionKey(ctx, agent.NewSessionKey())
		fmt.Println("Say hello to start your next order.")
	}
}

// forgetOrder drops the transcript and session of a finished order.
func forgetOrder(ctx context.Context, history *agent.HistoryStore, sessions *agent.SessionStore[Sandwich]) error {
	if err := history.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if err := sessions.Remove(ctx); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func askAgain(readLine func() (string, error)) (bool, error) {
	p := prompts.Confirm("Would you like to order another sandwich?")
	fmt.Printf("\nAssistant: %s\n", p.Start())
	for {
		input, err := readLine()
		if err != nil {
			return false, err
		}
		reply, err := p.Receive(input)
		if err != nil {
			fmt.Printf("Assistant: %s\n", reply.Text)
			return false, err
		}
		if reply.Done {
			return reply.Value, nil
		}
		fmt.Printf("Assistant: %s\n", reply.Text)
	}
}
