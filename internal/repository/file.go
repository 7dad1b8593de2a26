package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filevault/filevault/internal/db"
	"github.com/filevault/filevault/internal/model"
)

// PageSize is the fixed listing window.
const PageSize = 20

type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	ByID(ctx context.Context, id string) (*model.File, error)
	ByIDForUser(ctx context.Context, id, userID string) (*model.File, error)
	ByParent(ctx context.Context, userID, parentID string, page int64) ([]*model.File, error)
	SetPublic(ctx context.Context, id, userID string, isPublic bool) (*model.File, error)
	Count(ctx context.Context) (int64, error)
}

// fileDoc stores the root parent as null so the API sentinel "0" never
// leaks into the collection.
type fileDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `bson:"userId"`
	Name      string              `bson:"name"`
	Type      string              `bson:"type"`
	IsPublic  bool                `bson:"isPublic"`
	ParentID  *primitive.ObjectID `bson:"parentId"`
	LocalPath string              `bson:"localPath,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
}

func (d *fileDoc) toModel() *model.File {
	parentID := model.RootParentID
	if d.ParentID != nil {
		parentID = d.ParentID.Hex()
	}
	return &model.File{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Name:      d.Name,
		Type:      d.Type,
		IsPublic:  d.IsPublic,
		ParentID:  parentID,
		LocalPath: d.LocalPath,
		CreatedAt: d.CreatedAt,
	}
}

type fileRepository struct {
	coll *mongo.Collection
}

func NewFileRepository(database *db.DB) FileRepository {
	return &fileRepository{coll: database.Collection(db.CollectionFiles)}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	userID, err := primitive.ObjectIDFromHex(file.UserID)
	if err != nil {
		return ErrUserNotFound
	}

	doc := fileDoc{
		UserID:    userID,
		Name:      file.Name,
		Type:      file.Type,
		IsPublic:  file.IsPublic,
		LocalPath: file.LocalPath,
		CreatedAt: file.CreatedAt,
	}

	if file.ParentID != model.RootParentID {
		parentID, err := primitive.ObjectIDFromHex(file.ParentID)
		if err != nil {
			return ErrFileNotFound
		}
		doc.ParentID = &parentID
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}

	file.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *fileRepository) ByID(ctx context.Context, id string) (*model.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrFileNotFound
	}

	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *fileRepository) ByIDForUser(ctx context.Context, id, userID string) (*model.File, error) {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, filter)
}

func (r *fileRepository) ByParent(ctx context.Context, userID, parentID string, page int64) ([]*model.File, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	filter := bson.M{"userId": uid}
	if parentID == model.RootParentID {
		// Matches both null and absent parentId fields.
		filter["parentId"] = nil
	} else {
		pid, err := primitive.ObjectIDFromHex(parentID)
		if err != nil {
			// Unknown parent simply matches nothing.
			return []*model.File{}, nil
		}
		filter["parentId"] = pid
	}

	if page < 0 {
		page = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page * PageSize).
		SetLimit(PageSize)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	files := []*model.File{}
	for cursor.Next(ctx) {
		var doc fileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		files = append(files, doc.toModel())
	}
	return files, cursor.Err()
}

func (r *fileRepository) SetPublic(ctx context.Context, id, userID string, isPublic bool) (*model.File, error) {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc fileDoc
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"isPublic": isPublic}}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *fileRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *fileRepository) findOne(ctx context.Context, filter bson.M) (*model.File, error) {
	var doc fileDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func ownedFilter(id, userID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrFileNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrFileNotFound
	}
	return bson.M{"_id": oid, "userId": uid}, nil
}
