package pedido

// Pedido é um registro de compra de material (despesa), sem relação com
// pedidos de clientes.
type Pedido struct {
	ID           uint    `gorm:"primaryKey" json:"idPedido"`
	NomeMaterial string  `gorm:"size:100;not null" json:"nomeMaterial"`
	Fornecedor   *string `gorm:"size:100" json:"fornecedor"`
	Quantidade   int     `gorm:"not null;default:1" json:"quantidade"`
	Valor        float64 `gorm:"not null;default:0" json:"valor"`
	Entregador   *string `gorm:"size:100" json:"entregador"`
	Observacao   *string `json:"observacao"`
	Data         string  `gorm:"size:10" json:"data"` // YYYY-MM-DD
}

func (Pedido) TableName() string { return "pedidos" }
