package pedido

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/OficinaTornearia/api-tornearia/internal/httpresp"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type criarPedidoRequest struct {
	NomeMaterial string   `json:"nomeMaterial"`
	Fornecedor   *string  `json:"fornecedor"`
	Quantidade   *int     `json:"quantidade"`
	Valor        *float64 `json:"valor"`
	Entregador   *string  `json:"entregador"`
	Observacao   *string  `json:"observacao"`
	Data         string   `json:"data"`
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// CriarPedido trata POST /pedidos
func (h *Handler) CriarPedido(w http.ResponseWriter, r *http.Request) {
	var req criarPedidoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if strings.TrimSpace(req.NomeMaterial) == "" {
		httpresp.Mensagem(w, http.StatusBadRequest, "Nome do material é obrigatório para cadastro")
		return
	}
	if req.Quantidade != nil && *req.Quantidade < 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "Quantidade do material não pode ser negativa")
		return
	}
	if req.Valor != nil && *req.Valor < 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "Valor do material não pode ser negativo")
		return
	}

	quantidade := 1
	if req.Quantidade != nil && *req.Quantidade >= 1 {
		quantidade = *req.Quantidade
	}
	var valor float64
	if req.Valor != nil {
		valor = *req.Valor
	}
	data := req.Data
	if data == "" {
		data = time.Now().Format("2006-01-02")
	}

	p := Pedido{
		NomeMaterial: req.NomeMaterial,
		Fornecedor:   req.Fornecedor,
		Quantidade:   quantidade,
		Valor:        valor,
		Entregador:   req.Entregador,
		Observacao:   req.Observacao,
		Data:         data,
	}

	if err := h.Repository.Criar(h.DB, &p); err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "Não foi possível cadastrar o pedido do item no sistema")
		return
	}
	httpresp.Mensagem(w, http.StatusCreated, fmt.Sprintf("Pedido de %q cadastrado com sucesso.", req.NomeMaterial))
}

// ListarPedidos trata GET /pedidos
func (h *Handler) ListarPedidos(w http.ResponseWriter, r *http.Request) {
	pedidos, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		httpresp.Mensagem(w, http.StatusInternalServerError, "Ocorreu um erro no servidor ao listar os pedidos")
		return
	}
	if len(pedidos) == 0 {
		httpresp.Mensagem(w, http.StatusOK, "Nenhum pedido de material está cadastrado no sistema")
		return
	}
	httpresp.JSON(w, http.StatusOK, pedidos)
}

// BuscarPorID trata GET /pedidos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do pedido é obrigatório")
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpresp.Mensagem(w, http.StatusNotFound, "O pedido que buscou não está cadastrado no sistema")
			return
		}
		httpresp.Mensagem(w, http.StatusInternalServerError, "Ocorreu um erro no servidor ao buscar o pedido")
		return
	}
	httpresp.JSON(w, http.StatusOK, p)
}

// AtualizarParcial trata PATCH /pedidos/{id}. O corpo inteiro é validado e
// normalizado antes de qualquer escrita; uma única resposta por requisição.
func (h *Handler) AtualizarParcial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do pedido é obrigatório")
		return
	}

	if _, err := h.Repository.BuscarPorID(h.DB, uint(id)); err != nil {
		httpresp.Mensagem(w, http.StatusNotFound, "Pedido não encontrado")
		return
	}

	var campos map[string]any
	if err := json.NewDecoder(r.Body).Decode(&campos); err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if len(campos) == 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "Nenhum campo enviado para atualização")
		return
	}

	normalizados, err := normalizarCampos(campos)
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, err.Error())
		return
	}

	linhas, err := h.Repository.AtualizarCampos(h.DB, uint(id), normalizados)
	if err != nil || linhas == 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "Não foi possível atualizar o pedido")
		return
	}
	httpresp.Mensagem(w, http.StatusOK, "Pedido atualizado com sucesso")
}

// DeletarPedido trata DELETE /pedidos/{id}
func (h *Handler) DeletarPedido(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do pedido é obrigatório para deletar")
		return
	}

	linhas, err := h.Repository.Deletar(h.DB, uint(id))
	if err != nil {
		httpresp.Mensagem(w, http.StatusInternalServerError, "Ocorreu um erro no servidor ao deletar o pedido")
		return
	}
	if linhas == 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "O pedido que tentou deletar não está cadastrado no sistema")
		return
	}
	httpresp.Mensagem(w, http.StatusOK, "Pedido deletado com sucesso do sistema.")
}

// colunas que o PATCH pode tocar; qualquer outra chave é rejeitada
var camposPermitidos = map[string]string{
	"nomeMaterial": "nome_material",
	"fornecedor":   "fornecedor",
	"quantidade":   "quantidade",
	"valor":        "valor",
	"entregador":   "entregador",
	"observacao":   "observacao",
	"data":         "data",
}

// normalizarCampos valida o lote inteiro e devolve o mapa coluna→valor
// pronto para o UPDATE, ou o primeiro erro encontrado.
func normalizarCampos(campos map[string]any) (map[string]interface{}, error) {
	normalizados := make(map[string]interface{}, len(campos))
	for chave, valor := range campos {
		coluna, ok := camposPermitidos[chave]
		if !ok {
			return nil, fmt.Errorf("campo %q não é permitido para atualização", chave)
		}

		switch chave {
		case "quantidade":
			// quantidade nunca fica abaixo de 1
			normalizados[coluna] = normalizarQuantidade(valor)
		case "valor":
			v, ok := comoNumero(valor)
			if !ok {
				return nil, errors.New("Valor é obrigatório e deve ser um número válido")
			}
			if v < 0 {
				return nil, errors.New("Valor do material não pode ser negativo")
			}
			normalizados[coluna] = v
		case "nomeMaterial":
			s, _ := valor.(string)
			if strings.TrimSpace(s) == "" {
				return nil, errors.New("Nome do material é obrigatório para cadastro")
			}
			normalizados[coluna] = s
		default:
			normalizados[coluna] = valor
		}
	}
	return normalizados, nil
}

func normalizarQuantidade(valor any) int {
	q, ok := comoNumero(valor)
	if !ok || q < 1 {
		return 1
	}
	return int(q)
}

func comoNumero(valor any) (float64, bool) {
	switch v := valor.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
