package session

// seed.go - fixed demonstration dataset loaded on first initialization

import (
	"context"
	"fmt"

	"github.com/sqldeck/sqldeck/internal/adapter"
)

// seedStatements builds a small, deterministic commerce schema. The
// *_id column names are what the relationship inferencer keys on, so
// the demo graph has edges out of the box.
var seedStatements = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL
	)`,
	`CREATE TABLE products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL NOT NULL
	)`,
	`CREATE TABLE orders (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE order_items (
		id INTEGER PRIMARY KEY,
		order_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL
	)`,
	`INSERT INTO users (id, name, email) VALUES
		(1, 'Ada Lovelace', 'ada@example.com'),
		(2, 'Grace Hopper', 'grace@example.com'),
		(3, 'Alan Turing', 'alan@example.com'),
		(4, 'Edsger Dijkstra', 'edsger@example.com'),
		(5, 'Barbara Liskov', 'barbara@example.com')`,
	`INSERT INTO products (id, name, price) VALUES
		(1, 'Keyboard', 49.90),
		(2, 'Mouse', 19.90),
		(3, 'Monitor', 179.00),
		(4, 'Desk Lamp', 24.50),
		(5, 'USB Hub', 14.90),
		(6, 'Webcam', 59.00),
		(7, 'Headset', 89.90),
		(8, 'Laptop Stand', 39.00),
		(9, 'Docking Station', 129.00),
		(10, 'Cable Organizer', 9.90)`,
	`INSERT INTO orders (id, user_id, created_at) VALUES
		(1, 1, '2024-01-05'),
		(2, 1, '2024-01-19'),
		(3, 2, '2024-02-02'),
		(4, 3, '2024-02-14'),
		(5, 3, '2024-03-01'),
		(6, 4, '2024-03-07'),
		(7, 5, '2024-03-21'),
		(8, 2, '2024-04-02')`,
	`INSERT INTO order_items (id, order_id, product_id, quantity) VALUES
		(1, 1, 1, 1),
		(2, 1, 2, 2),
		(3, 2, 3, 1),
		(4, 3, 7, 1),
		(5, 3, 5, 3),
		(6, 4, 4, 2),
		(7, 5, 9, 1),
		(8, 6, 6, 1),
		(9, 6, 10, 4),
		(10, 7, 8, 1),
		(11, 8, 2, 1),
		(12, 8, 1, 1)`,
}

// loadSeedData populates the fixed demonstration dataset.
func loadSeedData(ctx context.Context, adp adapter.Adapter) error {
	for _, stmt := range seedStatements {
		if _, err := adp.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("seed statement failed: %w", err)
		}
	}
	return nil
}
