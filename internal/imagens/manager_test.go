package imagens

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var conteudoPNG = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x01, 0x02, 0x03, 0x04}

func dataURIPNG() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(conteudoPNG)
}

func novoManagerDeTeste(t *testing.T) *Manager {
	t.Helper()
	m, err := NovoManager(t.TempDir())
	if err != nil {
		t.Fatalf("NovoManager: %v", err)
	}
	return m
}

func TestSalvarBase64EExcluir(t *testing.T) {
	m := novoManagerDeTeste(t)

	nome, err := m.SalvarBase64(dataURIPNG(), 0)
	if err != nil {
		t.Fatalf("SalvarBase64: %v", err)
	}
	if !strings.HasPrefix(nome, "temp-") || !strings.HasSuffix(nome, ".png") {
		t.Fatalf("nome inesperado: %s", nome)
	}
	if !m.Existe(nome) {
		t.Fatal("arquivo salvo deveria existir")
	}

	gravado, err := os.ReadFile(m.Caminho(nome))
	if err != nil {
		t.Fatalf("ler arquivo: %v", err)
	}
	if !bytes.Equal(gravado, conteudoPNG) {
		t.Fatal("conteúdo gravado difere do original")
	}

	m.Excluir(nome)
	if m.Existe(nome) {
		t.Fatal("arquivo deveria ter sido removido")
	}
	// repetir a exclusão não é erro
	m.Excluir(nome)
}

func TestSalvarBase64ComServicoID(t *testing.T) {
	m := novoManagerDeTeste(t)

	nome, err := m.SalvarBase64(dataURIPNG(), 42)
	if err != nil {
		t.Fatalf("SalvarBase64: %v", err)
	}
	if !strings.HasPrefix(nome, "service-42-") {
		t.Fatalf("nome deveria embutir o id do serviço: %s", nome)
	}
}

func TestDecodificarBase64Invalido(t *testing.T) {
	casos := []string{
		"",
		"nao-e-data-uri",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,%%%invalido%%%",
	}
	for _, caso := range casos {
		if _, _, err := DecodificarBase64(caso); err == nil {
			t.Errorf("esperava erro para %q", caso)
		}
	}
}

func TestValidarImagemRejeitaFormato(t *testing.T) {
	if err := ValidarImagem([]byte("isto não é uma imagem")); err == nil {
		t.Fatal("esperava erro de formato")
	}
}

func TestValidarImagemRejeitaTamanho(t *testing.T) {
	grande := make([]byte, TamanhoMaximo+1)
	copy(grande, []byte{0x89, 0x50, 0x4E, 0x47})
	if err := ValidarImagem(grande); err == nil {
		t.Fatal("esperava erro de tamanho")
	}
}

func TestValidarImagemAceitaFormatosConhecidos(t *testing.T) {
	casos := [][]byte{
		{0xFF, 0xD8, 0xFF, 0x00},
		{0x89, 0x50, 0x4E, 0x47, 0x00},
		{0x47, 0x49, 0x46, 0x38},
		{0x52, 0x49, 0x46, 0x46, 0x00},
	}
	for i, caso := range casos {
		if err := ValidarImagem(caso); err != nil {
			t.Errorf("caso %d: %v", i, err)
		}
	}
}

func TestCaminhoSaneiaNome(t *testing.T) {
	m := novoManagerDeTeste(t)

	caminho := m.Caminho("../../etc/passwd")
	if caminho != filepath.Join(m.Dir(), "passwd") {
		t.Fatalf("caminho não saneado: %s", caminho)
	}
	if m.Caminho("") != "" {
		t.Fatal("nome vazio deveria resolver para caminho vazio")
	}
}

func TestRenomearParaServico(t *testing.T) {
	m := novoManagerDeTeste(t)

	nome, err := m.SalvarBase64(dataURIPNG(), 0)
	if err != nil {
		t.Fatalf("SalvarBase64: %v", err)
	}

	novo, err := m.RenomearParaServico(nome, 7)
	if err != nil {
		t.Fatalf("RenomearParaServico: %v", err)
	}
	if !strings.HasPrefix(novo, "service-7-") || !strings.HasSuffix(novo, ".png") {
		t.Fatalf("nome renomeado inesperado: %s", novo)
	}
	if m.Existe(nome) {
		t.Fatal("nome antigo não deveria mais existir")
	}
	if !m.Existe(novo) {
		t.Fatal("nome novo deveria existir")
	}
}

func TestListarArquivos(t *testing.T) {
	m := novoManagerDeTeste(t)

	if _, err := m.SalvarBase64(dataURIPNG(), 1); err != nil {
		t.Fatalf("SalvarBase64: %v", err)
	}
	// arquivo de outra extensão não entra na listagem
	if err := os.WriteFile(filepath.Join(m.Dir(), "nota.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	arquivos := m.ListarArquivos()
	if len(arquivos) != 1 {
		t.Fatalf("esperava 1 arquivo, veio %d", len(arquivos))
	}
}

func TestTipoConteudo(t *testing.T) {
	casos := map[string]string{
		"a.jpg":  "image/jpeg",
		"a.JPEG": "image/jpeg",
		"a.png":  "image/png",
		"a.gif":  "image/gif",
		"a.webp": "image/webp",
		"a.bin":  "application/octet-stream",
	}
	for nome, esperado := range casos {
		if got := TipoConteudo(nome); got != esperado {
			t.Errorf("%s: esperava %s, veio %s", nome, esperado, got)
		}
	}
}
