package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tbxark/formdialog/agent"
)

var _ agent.FormManager[Sandwich] = (*SandwichOrderManager)(nil)

// SandwichOrderManager numbers submitted orders and prints a ticket for the
// kitchen.
type SandwichOrderManager struct {
	mu     sync.Mutex
	orders []Sandwich
}

func (m *SandwichOrderManager) Submit(ctx context.Context, order Sandwich) error {
	m.mu.Lock()
	m.orders = append(m.orders, order)
	ticket := len(m.orders)
	m.mu.Unlock()

	slog.Info("Sandwich order submitted", "ticket", ticket, "bread", order.Bread, "length", order.Length)
	fmt.Printf("[kitchen] #%d %d\" %s, toppings %v, sauces %v, toasted=%t\n",
		ticket, order.Length, order.Bread, order.Toppings, order.Sauces, order.Toasted)
	return nil
}

func (m *SandwichOrderManager) Cancel(ctx context.Context, order Sandwich) error {
	slog.Debug("Sandwich order cancelled", "partial", order)
	return nil
}
