package repository

import (
	"context"
	"errors"
	"time"

	"recipe-status-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("orden no encontrada")

// Mongo implementation
type MongoRecipeRepository struct {
	col *mongo.Collection
}

func NewMongoRecipeRepository(db *mongo.Database) *MongoRecipeRepository {
	return &MongoRecipeRepository{col: db.Collection("recipe_statuses")}
}

func (m *MongoRecipeRepository) Save(ctx context.Context, o *model.RecipeOrder) error {
	now := time.Now().UTC()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
		// Primer estado en historial
		if len(o.History) == 0 {
			o.History = []model.StatusRecord{
				{
					Description: o.Status,
					ChangedDate: now.Format("2006-01-02"),
					ChangedTime: now.Format("15:04:05"),
					UserID:      o.UserID, // creador
					Reason:      "Orden creada",
					Current:     true,
				},
			}
		}
	}
	o.UpdatedAt = now

	filter := bson.M{"order_code": o.OrderCode}
	update := bson.M{"$set": o}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoRecipeRepository) FindByOrderCode(ctx context.Context, orderCode string) (*model.RecipeOrder, error) {
	var res model.RecipeOrder
	err := m.col.FindOne(ctx, bson.M{"order_code": orderCode}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// Par de campos fecha/hora que se estampa al entrar a cada fase.
var phaseFields = map[string][2]string{
	"En Tramite": {"fecha_en_tramite", "hora_en_tramite"},
	"Procesado":  {"fecha_en_proceso", "hora_en_proceso"},
	"Entregado":  {"fecha_entregado", "hora_entregado"},
}

// UpdateStatus cambia el estado actual, estampa el par fecha/hora de la fase
// alcanzada y agrega el registro al historial.
func (m *MongoRecipeRepository) UpdateStatus(ctx context.Context, orderCode, status string, record model.StatusRecord, deliveryNote string) error {

	// PASO 1: desmarcar el actual
	filter := bson.M{
		"order_code":      orderCode,
		"history.current": true,
	}

	update1 := bson.M{
		"$set": bson.M{
			"history.$.current": false,
		},
	}

	r1, err := m.col.UpdateOne(ctx, filter, update1)
	if err != nil {
		return err
	}
	if r1.MatchedCount == 0 {
		return ErrNotFound
	}

	// PASO 2: actualizar estado + pushear nuevo registro
	filter2 := bson.M{"order_code": orderCode}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if pair, ok := phaseFields[status]; ok {
		set[pair[0]] = record.ChangedDate
		set[pair[1]] = record.ChangedTime
	}
	if deliveryNote != "" {
		set["nota_entrega"] = deliveryNote
	}

	update2 := bson.M{
		"$set": set,
		"$push": bson.M{
			"history": record,
		},
	}

	_, err = m.col.UpdateOne(ctx, filter2, update2)
	return err
}

// FindAll devuelve una página de órdenes (orden de inserción) y el total.
func (m *MongoRecipeRepository) FindAll(ctx context.Context, limit, offset int) ([]*model.RecipeOrder, int, error) {
	total, err := m.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSkip(int64(offset)).SetLimit(int64(limit))
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []*model.RecipeOrder
	for cur.Next(ctx) {
		var v model.RecipeOrder
		if err := cur.Decode(&v); err != nil {
			return nil, 0, err
		}
		out = append(out, &v)
	}
	return out, int(total), nil
}

func (m *MongoRecipeRepository) FindByStatus(ctx context.Context, status string) ([]*model.RecipeOrder, error) {
	return m.findMany(ctx, bson.M{"status": status})
}

func (m *MongoRecipeRepository) FindByUserID(ctx context.Context, userID string) ([]*model.RecipeOrder, error) {
	return m.findMany(ctx, bson.M{"user_id": userID})
}

func (m *MongoRecipeRepository) findMany(ctx context.Context, filter bson.M) ([]*model.RecipeOrder, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.RecipeOrder
	for cur.Next(ctx) {
		var v model.RecipeOrder
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}
