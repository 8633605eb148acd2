package cliente

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/OficinaTornearia/api-tornearia/internal/database"
	"github.com/OficinaTornearia/api-tornearia/internal/httpresp"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type criarClienteRequest struct {
	NomeCliente string `json:"nomeCliente"`
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

var reContemDigito = regexp.MustCompile(`\d`)

// validarNome devolve a mensagem de erro ou "" quando o nome é válido.
func validarNome(nome string) string {
	if strings.TrimSpace(nome) == "" {
		return "Nome do cliente é obrigatório"
	}
	tamanho := utf8.RuneCountInString(nome)
	if tamanho < 3 || tamanho > 100 || reContemDigito.MatchString(nome) {
		return "Nome do cliente deve ter entre 3 e 100 caracteres e não pode conter números"
	}
	return ""
}

// CriarCliente trata POST /clientes
func (h *Handler) CriarCliente(w http.ResponseWriter, r *http.Request) {
	var req criarClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if msg := validarNome(req.NomeCliente); msg != "" {
		httpresp.Mensagem(w, http.StatusBadRequest, msg)
		return
	}

	nome := req.NomeCliente
	if _, err := h.Repository.BuscarPorNome(h.DB, nome); err == nil {
		httpresp.Mensagem(w, http.StatusBadRequest, fmt.Sprintf("Cliente com nome %q já cadastrado", nome))
		return
	}

	if _, err := h.Repository.Criar(h.DB, nome); err != nil {
		// duas requisições concorrentes com o mesmo nome novo: o índice
		// único segura a segunda
		if database.IsUniqueViolation(err) {
			httpresp.Mensagem(w, http.StatusBadRequest, fmt.Sprintf("Cliente com nome %q já cadastrado", nome))
			return
		}
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro interno no servidor")
		return
	}

	httpresp.Mensagem(w, http.StatusCreated, fmt.Sprintf("Cliente com nome %s cadastrado com sucesso.", nome))
}

// ListarClientes trata GET /clientes
func (h *Handler) ListarClientes(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro ao buscar clientes")
		return
	}
	if len(clientes) == 0 {
		httpresp.Mensagem(w, http.StatusOK, "Nenhum cliente está cadastrado no sistema")
		return
	}
	httpresp.JSON(w, http.StatusOK, clientes)
}

// BuscarPorID trata GET /clientes/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do cliente deve ser um número")
		return
	}

	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpresp.Mensagem(w, http.StatusNotFound, "Cliente não encontrado")
			return
		}
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro ao buscar o cliente")
		return
	}
	httpresp.JSON(w, http.StatusOK, c)
}

// AtualizarCliente trata PUT/PATCH /clientes/{id}
func (h *Handler) AtualizarCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID e Nome são obrigatórios para atualizar um cliente")
		return
	}

	var req criarClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.NomeCliente) == "" {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID e Nome são obrigatórios para atualizar um cliente")
		return
	}

	linhas, err := h.Repository.Atualizar(h.DB, uint(id), req.NomeCliente)
	if err != nil {
		if database.IsUniqueViolation(err) {
			httpresp.Mensagem(w, http.StatusBadRequest, fmt.Sprintf("Cliente com nome %q já cadastrado", req.NomeCliente))
			return
		}
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro interno no servidor")
		return
	}
	if linhas == 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "Esse cliente não está cadastrado")
		return
	}
	httpresp.Mensagem(w, http.StatusOK, "Cliente atualizado com sucesso")
}

// DeletarCliente trata DELETE /clientes/{id}. A FK de serviços impede a
// exclusão de cliente em uso; a violação vira resposta de erro, não no-op.
func (h *Handler) DeletarCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do cliente é obrigatório para deletar")
		return
	}

	linhas, err := h.Repository.Deletar(h.DB, uint(id))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			httpresp.Mensagem(w, http.StatusBadRequest, "Não foi possível deletar o cliente, existem serviços vinculados a ele")
			return
		}
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro ao deletar cliente")
		return
	}
	if linhas == 0 {
		httpresp.Mensagem(w, http.StatusNotFound, "Cliente não encontrado")
		return
	}
	httpresp.Mensagem(w, http.StatusOK, "Cliente deletado com sucesso")
}
