package cliente

import (
	"github.com/OficinaTornearia/api-tornearia/internal/database"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, nome string) (*Cliente, error)
	ListarTodos(db *gorm.DB) ([]Cliente, error)
	BuscarPorID(db *gorm.DB, id uint) (*Cliente, error)
	BuscarPorNome(db *gorm.DB, nome string) (*Cliente, error)
	BuscarOuCriarPorNome(db *gorm.DB, nome string) (*Cliente, error)
	Atualizar(db *gorm.DB, id uint, nome string) (int64, error)
	Deletar(db *gorm.DB, id uint) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, nome string) (*Cliente, error) {
	c := Cliente{Nome: nome}
	if err := db.Create(&c).Error; err != nil {
		return nil, database.Wrap(err, "não foi possível cadastrar o cliente no banco de dados, revise o nome digitado")
	}
	return &c, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Cliente, error) {
	var clientes []Cliente
	err := db.Find(&clientes).Error
	return clientes, database.Wrap(err, "não foi possível retornar a lista de clientes")
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Cliente, error) {
	var c Cliente
	if err := db.First(&c, id).Error; err != nil {
		return nil, database.Wrap(err, "cliente não encontrado")
	}
	return &c, nil
}

func (r *repositoryImpl) BuscarPorNome(db *gorm.DB, nome string) (*Cliente, error) {
	var c Cliente
	if err := db.Where("nome = ?", nome).First(&c).Error; err != nil {
		return nil, database.Wrap(err, "cliente não encontrado")
	}
	return &c, nil
}

// BuscarOuCriarPorNome resolve o cliente pelo nome exato, criando-o quando
// ainda não existe. Se outra requisição criar o mesmo nome entre a busca e o
// insert, o índice único dispara e a busca é refeita.
func (r *repositoryImpl) BuscarOuCriarPorNome(db *gorm.DB, nome string) (*Cliente, error) {
	var c Cliente
	err := db.Where(Cliente{Nome: nome}).FirstOrCreate(&c).Error
	if err != nil && database.IsUniqueViolation(err) {
		err = db.Where("nome = ?", nome).First(&c).Error
	}
	if err != nil {
		return nil, database.Wrap(err, "não foi possível resolver o cliente pelo nome")
	}
	return &c, nil
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, id uint, nome string) (int64, error) {
	res := db.Model(&Cliente{}).Where("id = ?", id).Update("nome", nome)
	return res.RowsAffected, database.Wrap(res.Error, "não foi possível atualizar o cliente, verifique se ele existe na lista de clientes cadastrados")
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) (int64, error) {
	res := db.Delete(&Cliente{}, id)
	return res.RowsAffected, database.Wrap(res.Error, "não foi possível deletar o cliente, verifique se ele existe na lista de clientes cadastrados")
}
