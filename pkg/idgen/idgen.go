// Package idgen genera números legibles de pedido a partir de IDs snowflake.
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// OrderPrefix prefijo de los números de pedido.
const OrderPrefix = "PSN-"

// Generator envuelve un nodo snowflake. Es seguro para uso concurrente.
type Generator struct {
	node *snowflake.Node
}

// New crea un generador para el nodo indicado (0..1023).
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("idgen: init snowflake: %w", err)
	}
	return &Generator{node: node}, nil
}

// MustNew igual que New pero entra en pánico ante un nodo inválido.
func MustNew(nodeID int64) *Generator {
	g, err := New(nodeID)
	if err != nil {
		panic(err)
	}
	return g
}

// OrderNumber devuelve un número de pedido nuevo, p. ej. PSN-1781234567890123456.
func (g *Generator) OrderNumber() string {
	return OrderPrefix + g.node.Generate().String()
}
