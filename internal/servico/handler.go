package servico

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/OficinaTornearia/api-tornearia/internal/cliente"
	"github.com/OficinaTornearia/api-tornearia/internal/httpresp"
	"github.com/OficinaTornearia/api-tornearia/internal/imagens"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type criarServicoRequest struct {
	NomeServico     string   `json:"nomeServico"`
	Preco           *float64 `json:"preco"`
	NomeCliente     string   `json:"nomeCliente"`
	Pagamento       string   `json:"pagamento"`
	Data            string   `json:"data"`
	StatusServico   *int     `json:"statusServico"`
	StatusPagamento *int     `json:"statusPagamento"`
	NotaFiscal      *string  `json:"notaFiscal"`
	Observacao      *string  `json:"observacao"`
	Imagem          string   `json:"imagem"`
}

type atualizarServicoRequest struct {
	NomeServico     *string  `json:"nomeServico"`
	Preco           *float64 `json:"preco"`
	NomeCliente     *string  `json:"nomeCliente"`
	Pagamento       *string  `json:"pagamento"`
	Data            *string  `json:"data"`
	StatusServico   *int     `json:"statusServico"`
	StatusPagamento *int     `json:"statusPagamento"`
	NotaFiscal      *string  `json:"notaFiscal"`
	Observacao      *string  `json:"observacao"`
	Imagem          *string  `json:"imagem"`
}

// Handler encapsula DB, repositories e o gerenciador de imagens
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Clientes   cliente.Repository
	Imagens    *imagens.Manager
	Logger     *zap.Logger
}

func NewHandler(db *gorm.DB, m *imagens.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Clientes:   cliente.NewRepository(),
		Imagens:    m,
		Logger:     logger,
	}
}

// CriarServico trata POST /servicos. Resolve o cliente pelo nome, criando-o
// quando ainda não existe, e cuida do ciclo de vida do arquivo de imagem.
func (h *Handler) CriarServico(w http.ResponseWriter, r *http.Request) {
	var req criarServicoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if strings.TrimSpace(req.NomeServico) == "" || req.Preco == nil || strings.TrimSpace(req.NomeCliente) == "" {
		httpresp.Mensagem(w, http.StatusBadRequest, "Nome do serviço, preço e nome do cliente são campos obrigatórios para cadastro")
		return
	}
	if *req.Preco < 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "Preço do serviço deve ser um número maior ou igual a zero")
		return
	}

	pagamento := req.Pagamento
	if pagamento == "" {
		pagamento = PagamentoDinheiro
	}
	if !PagamentoValido(pagamento) {
		httpresp.Mensagem(w, http.StatusBadRequest, "Forma de pagamento inválida, use Boleto, Cartão, Dinheiro ou Pix")
		return
	}

	c, err := h.Clientes.BuscarOuCriarPorNome(h.DB, req.NomeCliente)
	if err != nil {
		h.Logger.Error("erro ao resolver cliente do serviço", zap.Error(err))
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro interno no servidor")
		return
	}

	data := req.Data
	if data == "" {
		data = time.Now().Format("2006-01-02")
	}
	statusServico := StatusPendente
	if req.StatusServico != nil {
		statusServico = *req.StatusServico
	}
	statusPagamento := StatusPendente
	if req.StatusPagamento != nil {
		statusPagamento = *req.StatusPagamento
	}

	// a imagem é gravada antes do insert; se o insert falhar, o arquivo
	// órfão é removido
	var nomeImagem *string
	if req.Imagem != "" {
		nome, err := h.Imagens.SalvarBase64(req.Imagem, 0)
		if err != nil {
			httpresp.Mensagem(w, http.StatusBadRequest, err.Error())
			return
		}
		nomeImagem = &nome
	}

	s := Servico{
		NomeServico:     req.NomeServico,
		Preco:           *req.Preco,
		ClienteID:       c.ID,
		Pagamento:       pagamento,
		Data:            data,
		StatusServico:   statusServico,
		StatusPagamento: statusPagamento,
		NotaFiscal:      req.NotaFiscal,
		Observacao:      req.Observacao,
		Imagem:          nomeImagem,
	}

	if err := h.Repository.Criar(h.DB, &s); err != nil {
		if nomeImagem != nil {
			h.Imagens.Excluir(*nomeImagem)
		}
		httpresp.Mensagem(w, http.StatusBadRequest, "Não foi possível cadastrar o serviço no sistema")
		return
	}

	// renomeia o arquivo para embutir o id gerado; falha aqui não derruba a
	// requisição, o serviço já existe
	if nomeImagem != nil {
		h.renomearImagemParaServico(&s, *nomeImagem)
	}

	httpresp.Mensagem(w, http.StatusCreated, fmt.Sprintf("Serviço %s cadastrado com sucesso.", req.NomeServico))
}

func (h *Handler) renomearImagemParaServico(s *Servico, nomeAtual string) {
	novoNome, err := h.Imagens.RenomearParaServico(nomeAtual, s.ID)
	if err != nil {
		h.Logger.Warn("não foi possível renomear a imagem do serviço",
			zap.Uint("idServico", s.ID), zap.String("arquivo", nomeAtual), zap.Error(err))
		return
	}
	if _, err := h.Repository.AtualizarCampos(h.DB, s.ID, map[string]interface{}{"imagem": novoNome}); err != nil {
		// devolve o nome antigo para a linha não apontar para arquivo inexistente
		if errRename := h.Imagens.Renomear(novoNome, nomeAtual); errRename != nil {
			h.Logger.Warn("arquivo de imagem ficou fora de sincronia com a linha do serviço",
				zap.Uint("idServico", s.ID), zap.Error(errRename))
		}
		h.Logger.Warn("não foi possível gravar o novo nome da imagem",
			zap.Uint("idServico", s.ID), zap.Error(err))
		return
	}
	s.Imagem = &novoNome
}

// ListarServicos trata GET /servicos
func (h *Handler) ListarServicos(w http.ResponseWriter, r *http.Request) {
	servicos, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro interno no servidor")
		return
	}
	if len(servicos) == 0 {
		httpresp.Mensagem(w, http.StatusOK, "Nenhum serviço está cadastrado no sistema")
		return
	}
	httpresp.JSON(w, http.StatusOK, servicos)
}

// BuscarPorID trata GET /servicos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do serviço é um número obrigatório")
		return
	}

	s, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpresp.Mensagem(w, http.StatusNotFound, "O serviço que buscou não está cadastrado no sistema")
			return
		}
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro interno no servidor")
		return
	}
	httpresp.JSON(w, http.StatusOK, s)
}

// ListarPorCliente trata GET /clientes/{id}/servicos
func (h *Handler) ListarPorCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do cliente deve ser um número")
		return
	}

	servicos, err := h.Repository.ListarPorCliente(h.DB, uint(id))
	if err != nil {
		httpresp.Mensagem(w, http.StatusInternalServerError, "Erro interno no servidor")
		return
	}
	if len(servicos) == 0 {
		httpresp.Mensagem(w, http.StatusOK, "Nenhum serviço está cadastrado para esse cliente")
		return
	}
	httpresp.JSON(w, http.StatusOK, servicos)
}

// AtualizarServico trata PUT /servicos/{id}. Campos ausentes no corpo mantêm
// o valor atual da linha; o cliente precisa existir, aqui não há criação.
func (h *Handler) AtualizarServico(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do serviço é obrigatório")
		return
	}

	atual, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		httpresp.Mensagem(w, http.StatusNotFound, "O serviço que tentou atualizar não está cadastrado no sistema")
		return
	}

	var req atualizarServicoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.NomeServico == nil || strings.TrimSpace(*req.NomeServico) == "" {
		httpresp.Mensagem(w, http.StatusBadRequest, "Nome do serviço é obrigatório para atualizar")
		return
	}

	clienteID := atual.ClienteID
	if req.NomeCliente != nil && strings.TrimSpace(*req.NomeCliente) != "" {
		c, err := h.Clientes.BuscarPorNome(h.DB, *req.NomeCliente)
		if err != nil {
			httpresp.Mensagem(w, http.StatusNotFound, fmt.Sprintf("O cliente %q não está cadastrado no sistema", *req.NomeCliente))
			return
		}
		clienteID = c.ID
	}

	if req.Preco != nil && *req.Preco < 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "Preço do serviço deve ser um número maior ou igual a zero")
		return
	}
	if req.Pagamento != nil && !PagamentoValido(*req.Pagamento) {
		httpresp.Mensagem(w, http.StatusBadRequest, "Forma de pagamento inválida, use Boleto, Cartão, Dinheiro ou Pix")
		return
	}

	// valida a nova imagem antes de apagar a antiga; falha aqui mantém a
	// imagem atual intacta
	novaImagem := atual.Imagem
	if req.Imagem != nil && *req.Imagem != "" {
		ext, conteudo, err := imagens.DecodificarBase64(*req.Imagem)
		if err == nil {
			err = imagens.ValidarImagem(conteudo)
		}
		if err != nil {
			httpresp.Mensagem(w, http.StatusBadRequest, err.Error())
			return
		}
		if atual.Imagem != nil {
			h.Imagens.Excluir(*atual.Imagem)
		}
		nome, err := h.Imagens.Salvar(conteudo, ext, atual.ID)
		if err != nil {
			httpresp.Mensagem(w, http.StatusBadRequest, err.Error())
			return
		}
		novaImagem = &nome
	}

	atual.NomeServico = *req.NomeServico
	atual.ClienteID = clienteID
	atual.Imagem = novaImagem
	if req.Preco != nil {
		atual.Preco = *req.Preco
	}
	if req.Pagamento != nil {
		atual.Pagamento = *req.Pagamento
	}
	if req.Data != nil {
		atual.Data = *req.Data
	}
	if req.StatusServico != nil {
		atual.StatusServico = *req.StatusServico
	}
	if req.StatusPagamento != nil {
		atual.StatusPagamento = *req.StatusPagamento
	}
	if req.NotaFiscal != nil {
		atual.NotaFiscal = req.NotaFiscal
	}
	if req.Observacao != nil {
		atual.Observacao = req.Observacao
	}

	if err := h.Repository.Salvar(h.DB, atual); err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "Não foi possível atualizar o serviço no sistema")
		return
	}
	httpresp.Mensagem(w, http.StatusOK, fmt.Sprintf("Serviço %q atualizado com sucesso", atual.NomeServico))
}

// AtualizarParcial trata PATCH /servicos/{id}. O corpo inteiro é validado
// antes de qualquer efeito (inclusive a troca da imagem); nenhuma escrita
// parcial acontece.
func (h *Handler) AtualizarParcial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do serviço é obrigatório")
		return
	}

	atual, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		httpresp.Mensagem(w, http.StatusNotFound, "Serviço não encontrado")
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

	normalizados, novaImagem, err := normalizarCamposServico(campos)
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(normalizados) == 0 && novaImagem == nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "Nenhum campo enviado para atualização")
		return
	}

	// só depois do lote inteiro validado a imagem antiga é trocada
	if novaImagem != nil {
		if atual.Imagem != nil {
			h.Imagens.Excluir(*atual.Imagem)
		}
		nome, err := h.Imagens.Salvar(novaImagem.conteudo, novaImagem.ext, atual.ID)
		if err != nil {
			httpresp.Mensagem(w, http.StatusBadRequest, err.Error())
			return
		}
		normalizados["imagem"] = nome
	}

	linhas, err := h.Repository.AtualizarCampos(h.DB, atual.ID, normalizados)
	if err != nil || linhas == 0 {
		httpresp.Mensagem(w, http.StatusBadRequest, "Não foi possível atualizar o serviço")
		return
	}
	httpresp.Mensagem(w, http.StatusOK, "Serviço atualizado com sucesso")
}

// DeletarServico trata DELETE /servicos/{id}. A linha e o arquivo de imagem
// saem juntos.
func (h *Handler) DeletarServico(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpresp.Mensagem(w, http.StatusBadRequest, "ID do serviço é obrigatório para deletar")
		return
	}

	atual, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		httpresp.Mensagem(w, http.StatusNotFound, "O serviço que tentou deletar não está cadastrado no sistema")
		return
	}

	if atual.Imagem != nil {
		h.Imagens.Excluir(*atual.Imagem)
	}

	linhas, err := h.Repository.Deletar(h.DB, atual.ID)
	if err != nil || linhas == 0 {
		httpresp.Mensagem(w, http.StatusNotFound, "O serviço que tentou deletar não está cadastrado no sistema")
		return
	}
	httpresp.Mensagem(w, http.StatusOK, "Serviço deletado com sucesso")
}

// BuscarImagem trata GET /servicos/images/{arquivo}. O nome vindo do cliente
// nunca é usado como caminho; só o componente final resolve dentro do
// diretório de imagens.
func (h *Handler) BuscarImagem(w http.ResponseWriter, r *http.Request) {
	arquivo := mux.Vars(r)["arquivo"]
	caminho := h.Imagens.Caminho(arquivo)
	if caminho == "" || !h.Imagens.Existe(arquivo) {
		httpresp.Mensagem(w, http.StatusNotFound, "Imagem não encontrada")
		return
	}

	w.Header().Set("Content-Type", imagens.TipoConteudo(arquivo))
	http.ServeFile(w, r, caminho)
}

type imagemDecodificada struct {
	ext      string
	conteudo []byte
}

// colunas que o PATCH pode tocar; qualquer outra chave é rejeitada
var camposPermitidos = map[string]string{
	"nomeServico":     "nome_servico",
	"preco":           "preco",
	"pagamento":       "pagamento",
	"data":            "data",
	"statusServico":   "status_servico",
	"statusPagamento": "status_pagamento",
	"notaFiscal":      "nota_fiscal",
	"observacao":      "observacao",
	"imagem":          "imagem",
}

// normalizarCamposServico valida o lote inteiro e devolve o mapa
// coluna→valor mais a imagem decodificada (ainda não gravada), ou o primeiro
// erro encontrado.
func normalizarCamposServico(campos map[string]any) (map[string]interface{}, *imagemDecodificada, error) {
	normalizados := make(map[string]interface{}, len(campos))
	var novaImagem *imagemDecodificada

	for chave, valor := range campos {
		coluna, ok := camposPermitidos[chave]
		if !ok {
			return nil, nil, fmt.Errorf("campo %q não é permitido para atualização", chave)
		}

		switch chave {
		case "preco":
			p, ok := comoNumero(valor)
			if !ok || p < 0 {
				return nil, nil, errors.New("Preço é obrigatório e deve ser um número maior ou igual a zero")
			}
			normalizados[coluna] = p
		case "pagamento":
			s, _ := valor.(string)
			if !PagamentoValido(s) {
				return nil, nil, errors.New("Forma de pagamento inválida, use Boleto, Cartão, Dinheiro ou Pix")
			}
			normalizados[coluna] = s
		case "nomeServico":
			s, _ := valor.(string)
			if strings.TrimSpace(s) == "" {
				return nil, nil, errors.New("Nome do serviço é obrigatório para atualizar")
			}
			normalizados[coluna] = s
		case "statusServico", "statusPagamento":
			n, ok := comoNumero(valor)
			if !ok {
				return nil, nil, fmt.Errorf("campo %q deve ser um número", chave)
			}
			normalizados[coluna] = int(n)
		case "imagem":
			s, _ := valor.(string)
			if s == "" {
				continue
			}
			ext, conteudo, err := imagens.DecodificarBase64(s)
			if err == nil {
				err = imagens.ValidarImagem(conteudo)
			}
			if err != nil {
				return nil, nil, err
			}
			novaImagem = &imagemDecodificada{ext: ext, conteudo: conteudo}
		default:
			normalizados[coluna] = valor
		}
	}
	return normalizados, novaImagem, nil
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
