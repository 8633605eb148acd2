package pedido

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Pedido{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func patchPedido(t *testing.T, h *Handler, id, corpo string) *httptest.ResponseRecorder {
	t.Helper()
	req := mux.SetURLVars(
		httptest.NewRequest(http.MethodPatch, "/pedidos/"+id, strings.NewReader(corpo)),
		map[string]string{"id": id},
	)
	w := httptest.NewRecorder()
	h.AtualizarParcial(w, req)
	return w
}

func TestCriarPedidoComPadroes(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/pedidos", strings.NewReader(`{"nomeMaterial":"Barra de aço 1045"}`))
	w := httptest.NewRecorder()
	h.CriarPedido(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("esperava 201, veio %d: %s", w.Code, w.Body.String())
	}

	var p Pedido
	if err := db.First(&p).Error; err != nil {
		t.Fatalf("buscar pedido: %v", err)
	}
	if p.Quantidade != 1 {
		t.Fatalf("quantidade padrão deveria ser 1, veio %d", p.Quantidade)
	}
	if p.Valor != 0 {
		t.Fatalf("valor padrão deveria ser 0, veio %f", p.Valor)
	}
	if p.Data != time.Now().Format("2006-01-02") {
		t.Fatalf("data padrão deveria ser hoje, veio %s", p.Data)
	}
	if p.Fornecedor != nil {
		t.Fatal("fornecedor ausente deveria ficar nulo")
	}
}

func TestCriarPedidoInvalido(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	casos := []string{
		`{}`,
		`{"nomeMaterial":"   "}`,
		`{"nomeMaterial":"Chapa","quantidade":-2}`,
		`{"nomeMaterial":"Chapa","valor":-10.5}`,
	}
	for _, corpo := range casos {
		req := httptest.NewRequest(http.MethodPost, "/pedidos", strings.NewReader(corpo))
		w := httptest.NewRecorder()
		h.CriarPedido(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("corpo %s: esperava 400, veio %d", corpo, w.Code)
		}
	}
}

func TestListarPedidosVazio(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/pedidos", nil)
	w := httptest.NewRecorder()
	h.ListarPedidos(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d", w.Code)
	}
	var corpo map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &corpo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if corpo["message"] == "" {
		t.Fatal("lista vazia deveria vir com mensagem informativa")
	}
}

func seedPedido(t *testing.T, db *gorm.DB) Pedido {
	t.Helper()
	p := Pedido{NomeMaterial: "Tarugo de bronze", Quantidade: 2, Valor: 150, Data: "2026-01-15"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	return p
}

func TestPatchQuantidadeZeroViraUm(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)
	p := seedPedido(t, db)

	w := patchPedido(t, h, "1", `{"quantidade":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", w.Code, w.Body.String())
	}

	db.First(&p, p.ID)
	if p.Quantidade != 1 {
		t.Fatalf("quantidade deveria ter sido elevada para 1, veio %d", p.Quantidade)
	}
}

func TestPatchValorNegativoRejeitado(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)
	p := seedPedido(t, db)

	w := patchPedido(t, h, "1", `{"valor":-5}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, veio %d", w.Code)
	}

	db.First(&p, p.ID)
	if p.Valor != 150 {
		t.Fatalf("valor não deveria ter mudado, veio %f", p.Valor)
	}
}

func TestPatchValorInvalidoRejeitado(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)
	seedPedido(t, db)

	for _, corpo := range []string{`{"valor":""}`, `{"valor":null}`, `{"valor":"abc"}`} {
		if w := patchPedido(t, h, "1", corpo); w.Code != http.StatusBadRequest {
			t.Errorf("corpo %s: esperava 400, veio %d", corpo, w.Code)
		}
	}
}

func TestPatchCampoDesconhecidoRejeitado(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)
	seedPedido(t, db)

	w := patchPedido(t, h, "1", `{"colunaFantasma":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, veio %d", w.Code)
	}
}

func TestPatchCorpoVazio(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)
	seedPedido(t, db)

	w := patchPedido(t, h, "1", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, veio %d", w.Code)
	}
}

func TestPatchPedidoInexistente(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	w := patchPedido(t, h, "9", `{"valor":10}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("esperava 404, veio %d", w.Code)
	}
}

func TestPatchVariosCampos(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)
	p := seedPedido(t, db)

	w := patchPedido(t, h, "1", `{"fornecedor":"Aços Brasil","valor":200,"quantidade":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", w.Code, w.Body.String())
	}

	db.First(&p, p.ID)
	if p.Fornecedor == nil || *p.Fornecedor != "Aços Brasil" {
		t.Fatal("fornecedor não atualizado")
	}
	if p.Valor != 200 || p.Quantidade != 3 {
		t.Fatalf("campos não atualizados: valor=%f quantidade=%d", p.Valor, p.Quantidade)
	}
}

func TestDeletarPedido(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)
	seedPedido(t, db)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/pedidos/1", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	h.DeletarPedido(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/pedidos/1", nil), map[string]string{"id": "1"})
	h.DeletarPedido(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("segunda exclusão: esperava 400, veio %d", w.Code)
	}
}
