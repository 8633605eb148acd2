package servico

import (
	"github.com/OficinaTornearia/api-tornearia/internal/database"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, s *Servico) error
	ListarTodos(db *gorm.DB) ([]Servico, error)
	BuscarPorID(db *gorm.DB, id uint) (*Servico, error)
	ListarPorCliente(db *gorm.DB, clienteID uint) ([]Servico, error)
	Salvar(db *gorm.DB, s *Servico) error
	AtualizarCampos(db *gorm.DB, id uint, campos map[string]interface{}) (int64, error)
	Deletar(db *gorm.DB, id uint) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, s *Servico) error {
	return database.Wrap(db.Create(s).Error, "não foi possível cadastrar o serviço, revise os dados digitados")
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Servico, error) {
	var servicos []Servico
	err := db.Find(&servicos).Error
	return servicos, database.Wrap(err, "não foi possível retornar a lista de serviços")
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Servico, error) {
	var s Servico
	if err := db.First(&s, id).Error; err != nil {
		return nil, database.Wrap(err, "serviço que você buscou não foi encontrado")
	}
	return &s, nil
}

func (r *repositoryImpl) ListarPorCliente(db *gorm.DB, clienteID uint) ([]Servico, error) {
	var servicos []Servico
	err := db.Where("cliente_id = ?", clienteID).Find(&servicos).Error
	return servicos, database.Wrap(err, "não foi possível retornar os serviços do cliente")
}

func (r *repositoryImpl) Salvar(db *gorm.DB, s *Servico) error {
	return database.Wrap(db.Save(s).Error, "não foi possível atualizar o serviço no sistema")
}

// AtualizarCampos aplica um patch coluna a coluna; as chaves já passaram
// pela lista de campos permitidos do handler.
func (r *repositoryImpl) AtualizarCampos(db *gorm.DB, id uint, campos map[string]interface{}) (int64, error) {
	res := db.Model(&Servico{}).Where("id = ?", id).Updates(campos)
	return res.RowsAffected, database.Wrap(res.Error, "não foi possível aplicar o patch no serviço")
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) (int64, error) {
	res := db.Delete(&Servico{}, id)
	return res.RowsAffected, database.Wrap(res.Error, "não foi possível deletar o serviço, verifique se ele existe na lista de serviços cadastrados")
}
