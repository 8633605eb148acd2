package pedido

import (
	"github.com/OficinaTornearia/api-tornearia/internal/database"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, p *Pedido) error
	ListarTodos(db *gorm.DB) ([]Pedido, error)
	BuscarPorID(db *gorm.DB, id uint) (*Pedido, error)
	AtualizarCampos(db *gorm.DB, id uint, campos map[string]interface{}) (int64, error)
	Deletar(db *gorm.DB, id uint) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, p *Pedido) error {
	return database.Wrap(db.Create(p).Error, "não foi possível cadastrar o pedido, revise os dados digitados")
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Pedido, error) {
	var pedidos []Pedido
	err := db.Find(&pedidos).Error
	return pedidos, database.Wrap(err, "não foi possível retornar a lista de pedidos")
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Pedido, error) {
	var p Pedido
	if err := db.First(&p, id).Error; err != nil {
		return nil, database.Wrap(err, "o pedido de material que você procurou não está cadastrado no sistema")
	}
	return &p, nil
}

// AtualizarCampos aplica um patch coluna a coluna. As chaves já chegam
// filtradas pela lista de campos permitidos do handler; o GORM monta o SET
// com binding posicional a partir do mapa.
func (r *repositoryImpl) AtualizarCampos(db *gorm.DB, id uint, campos map[string]interface{}) (int64, error) {
	res := db.Model(&Pedido{}).Where("id = ?", id).Updates(campos)
	return res.RowsAffected, database.Wrap(res.Error, "não foi possível aplicar o patch no pedido")
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) (int64, error) {
	res := db.Delete(&Pedido{}, id)
	return res.RowsAffected, database.Wrap(res.Error, "não foi possível deletar o pedido, revise se ele está cadastrado no sistema")
}
