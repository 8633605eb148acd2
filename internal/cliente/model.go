package cliente

// Cliente é um cliente da oficina, identificado por um nome único.
// A exclusão é bloqueada pela FK enquanto houver serviços vinculados.
type Cliente struct {
	ID   uint   `gorm:"primaryKey" json:"idCliente"`
	Nome string `gorm:"size:100;uniqueIndex;not null" json:"nomeCliente"`
}

func (Cliente) TableName() string { return "clientes" }
