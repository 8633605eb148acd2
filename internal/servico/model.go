package servico

import (
	"github.com/OficinaTornearia/api-tornearia/internal/cliente"
)

// Formas de pagamento aceitas.
const (
	PagamentoBoleto   = "Boleto"
	PagamentoCartao   = "Cartão"
	PagamentoDinheiro = "Dinheiro"
	PagamentoPix      = "Pix"
)

// Estados de serviço e de pagamento: -1 pendente, 0 em andamento/parcial,
// 1 concluído/quitado.
const (
	StatusPendente  = -1
	StatusAndamento = 0
	StatusConcluido = 1
)

// Servico é uma unidade de trabalho cobrável de um cliente. Imagem guarda
// apenas o nome do arquivo; o binário vive no diretório de imagens e os dois
// ciclos de vida andam juntos.
type Servico struct {
	ID              uint            `gorm:"primaryKey" json:"idServico"`
	NomeServico     string          `gorm:"size:100;not null" json:"nomeServico"`
	Preco           float64         `gorm:"not null" json:"preco"`
	ClienteID       uint            `gorm:"not null;index" json:"idCliente"`
	Cliente         cliente.Cliente `gorm:"foreignKey:ClienteID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Pagamento       string          `gorm:"size:20;not null;default:Dinheiro" json:"pagamento"`
	Data            string          `gorm:"size:10" json:"data"` // YYYY-MM-DD
	StatusServico   int             `gorm:"not null;default:-1" json:"statusServico"`
	StatusPagamento int             `gorm:"not null;default:-1" json:"statusPagamento"`
	NotaFiscal      *string         `gorm:"size:50" json:"notaFiscal"`
	Observacao      *string         `json:"observacao"`
	Imagem          *string         `gorm:"size:120" json:"imagem"`
}

func (Servico) TableName() string { return "servicos" }

// PagamentoValido confere a forma de pagamento contra o enum.
func PagamentoValido(pagamento string) bool {
	switch pagamento {
	case PagamentoBoleto, PagamentoCartao, PagamentoDinheiro, PagamentoPix:
		return true
	}
	return false
}
