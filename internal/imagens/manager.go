package imagens

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TamanhoMaximo limita o arquivo de imagem em 5MB.
const TamanhoMaximo = 5 * 1024 * 1024

var (
	ErrFormatoInvalido = errors.New("formato de imagem inválido, apenas JPEG, PNG, GIF e WebP são aceitos")
	ErrImagemGrande    = errors.New("imagem muito grande, o tamanho máximo é 5MB")
	ErrDataURIInvalido = errors.New("imagem em base64 inválida, use o formato data:image/<tipo>;base64,<dados>")
)

var reDataURI = regexp.MustCompile(`^data:image/([a-zA-Z]+);base64,(.+)$`)

// magic bytes dos formatos aceitos
var assinaturas = [][]byte{
	{0xFF, 0xD8, 0xFF},       // JPEG
	{0x89, 0x50, 0x4E, 0x47}, // PNG
	{0x47, 0x49, 0x46},       // GIF
	{0x52, 0x49, 0x46, 0x46}, // WebP (RIFF)
}

// Manager guarda os arquivos de imagem dos serviços fora do banco,
// referenciados apenas pelo nome gerado.
type Manager struct {
	dir string
}

func NovoManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("não foi possível criar o diretório de imagens: %w", err)
	}
	return &Manager{dir: dir}, nil
}

func (m *Manager) Dir() string { return m.dir }

// DecodificarBase64 extrai a extensão e os bytes de um data URI de imagem.
func DecodificarBase64(dataURI string) (string, []byte, error) {
	matches := reDataURI.FindStringSubmatch(dataURI)
	if matches == nil {
		return "", nil, ErrDataURIInvalido
	}
	conteudo, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return "", nil, ErrDataURIInvalido
	}
	return strings.ToLower(matches[1]), conteudo, nil
}

// ValidarImagem confere o tamanho e os magic bytes do conteúdo.
func ValidarImagem(conteudo []byte) error {
	if len(conteudo) > TamanhoMaximo {
		return ErrImagemGrande
	}
	for _, magic := range assinaturas {
		if bytes.HasPrefix(conteudo, magic) {
			return nil
		}
	}
	return ErrFormatoInvalido
}

// Salvar grava o conteúdo já validado sob um nome único e o devolve.
// servicoID zero gera um nome temporário (linha ainda não inserida).
func (m *Manager) Salvar(conteudo []byte, ext string, servicoID uint) (string, error) {
	nome := gerarNomeUnico(ext, servicoID)
	if err := os.WriteFile(filepath.Join(m.dir, nome), conteudo, 0o644); err != nil {
		return "", fmt.Errorf("não foi possível salvar o arquivo de imagem: %w", err)
	}
	return nome, nil
}

// SalvarBase64 decodifica, valida e grava um data URI de imagem.
func (m *Manager) SalvarBase64(dataURI string, servicoID uint) (string, error) {
	ext, conteudo, err := DecodificarBase64(dataURI)
	if err != nil {
		return "", err
	}
	if err := ValidarImagem(conteudo); err != nil {
		return "", err
	}
	return m.Salvar(conteudo, ext, servicoID)
}

// Excluir remove o arquivo se existir; arquivo ausente não é erro.
func (m *Manager) Excluir(nome string) {
	caminho := m.Caminho(nome)
	if caminho == "" {
		return
	}
	_ = os.Remove(caminho)
}

// Caminho resolve o nome para o caminho absoluto dentro do diretório de
// imagens. O nome vem do cliente HTTP, então só o componente final é usado.
func (m *Manager) Caminho(nome string) string {
	nome = filepath.Base(strings.TrimSpace(nome))
	if nome == "" || nome == "." || nome == string(filepath.Separator) {
		return ""
	}
	return filepath.Join(m.dir, nome)
}

func (m *Manager) Existe(nome string) bool {
	caminho := m.Caminho(nome)
	if caminho == "" {
		return false
	}
	_, err := os.Stat(caminho)
	return err == nil
}

// Renomear troca o nome de um arquivo já salvo.
func (m *Manager) Renomear(antigo, novo string) error {
	return os.Rename(filepath.Join(m.dir, filepath.Base(antigo)), filepath.Join(m.dir, filepath.Base(novo)))
}

// RenomearParaServico embute o id do serviço recém-criado no nome do
// arquivo e devolve o novo nome.
func (m *Manager) RenomearParaServico(nome string, servicoID uint) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(nome), ".")
	novo := gerarNomeUnico(ext, servicoID)
	if err := m.Renomear(nome, novo); err != nil {
		return "", err
	}
	return novo, nil
}

// ListarArquivos devolve os arquivos de imagem presentes no diretório.
func (m *Manager) ListarArquivos() []string {
	entradas, err := os.ReadDir(m.dir)
	if err != nil {
		return nil
	}
	var nomes []string
	for _, e := range entradas {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".gif", ".webp":
			nomes = append(nomes, e.Name())
		}
	}
	return nomes
}

// TipoConteudo deriva o Content-Type da extensão do arquivo.
func TipoConteudo(nome string) string {
	switch strings.ToLower(filepath.Ext(nome)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func gerarNomeUnico(ext string, servicoID uint) string {
	sufixo := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	ts := time.Now().UnixMilli()
	if servicoID > 0 {
		return fmt.Sprintf("service-%d-%d-%s.%s", servicoID, ts, sufixo, ext)
	}
	return fmt.Sprintf("temp-%d-%s.%s", ts, sufixo, ext)
}
