package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// accountDocument keeps the field names of the legacy "users" documents so
// existing data can be read without a migration.
type accountDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password"`
	ReferrerCode  string             `bson:"referrer"`
	ReferralCode  string             `bson:"referralCode"`
	TransactionID string             `bson:"txnId"`
	PaymentStatus string             `bson:"paymentStatus"`
	Wallet        bson.RawValue      `bson:"wallet"`
	Phone         string             `bson:"phone"`
	Address       string             `bson:"address"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// walletValue decodes balances written either by this service (Decimal128)
// or by older writers that stored plain numbers.
func walletValue(v bson.RawValue) (decimal.Decimal, error) {
	switch v.Type {
	case bsontype.Decimal128:
		return decimal.NewFromString(v.Decimal128().String())
	case bsontype.Double:
		return decimal.NewFromFloat(v.Double()), nil
	case bsontype.Int32:
		return decimal.NewFromInt32(v.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(v.Int64()), nil
	case 0, bsontype.Null, bsontype.Undefined:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported wallet type %s", v.Type)
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func (d *accountDocument) toModel() (*models.Account, error) {
	wallet, err := walletValue(d.Wallet)
	if err != nil {
		return nil, err
	}
	status := models.PaymentStatus(d.PaymentStatus)
	if status == "" {
		status = models.PaymentPending
	}
	return &models.Account{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		ReferrerCode:  d.ReferrerCode,
		ReferralCode:  d.ReferralCode,
		TransactionID: d.TransactionID,
		PaymentStatus: status,
		Wallet:        wallet,
		Phone:         d.Phone,
		Address:       d.Address,
		CreatedAt:     d.CreatedAt,
	}, nil
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func mapMongoWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		switch {
		case strings.Contains(err.Error(), EmailConstraint):
			return common.ErrDuplicateEmail
		case strings.Contains(err.Error(), ReferralCodeConstraint):
			return common.ErrDuplicateReferralCode
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *MongoRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	wallet, err := toDecimal128(account.Wallet)
	if err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}

	doc := bson.D{
		{Key: "name", Value: account.Name},
		{Key: "email", Value: account.Email},
		{Key: "password", Value: account.PasswordHash},
		{Key: "referrer", Value: account.ReferrerCode},
		{Key: "referralCode", Value: account.ReferralCode},
		{Key: "txnId", Value: account.TransactionID},
		{Key: "paymentStatus", Value: string(account.PaymentStatus)},
		{Key: "wallet", Value: wallet},
		{Key: "phone", Value: account.Phone},
		{Key: "address", Value: account.Address},
		{Key: "createdAt", Value: account.CreatedAt},
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, mapMongoWriteError(err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid.Hex()
	}
	return account, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var doc accountDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel()
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.coll.FindOne(ctx, bson.M{"referralCode": code}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

func (r *MongoRepository) CreditWallet(ctx context.Context, referralCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	inc, err := toDecimal128(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount: %w", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc accountDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"referralCode": referralCode},
		bson.M{"$inc": bson.M{"wallet": inc}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return decimal.Zero, common.ErrorNotFound
		}
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}
	return walletValue(doc.Wallet)
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.Account, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	result := make([]models.Account, 0)
	for cur.Next(ctx) {
		var doc accountDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) ListReferrals(ctx context.Context, referralCode string) ([]models.Account, error) {
	return r.find(ctx, bson.M{"referrer": referralCode})
}

func (r *MongoRepository) List(ctx context.Context) ([]models.Account, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) updateOne(ctx context.Context, filter bson.M, set bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, email string, profile models.Profile) error {
	return r.updateOne(ctx, bson.M{"email": email}, bson.M{
		"name":    profile.Name,
		"phone":   profile.Phone,
		"address": profile.Address,
	})
}

func (r *MongoRepository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}
	return r.updateOne(ctx, bson.M{"_id": oid}, bson.M{"paymentStatus": string(status)})
}

func (r *MongoRepository) SetPasswordHash(ctx context.Context, id string, hash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}
	return r.updateOne(ctx, bson.M{"_id": oid}, bson.M{"password": hash})
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Indexes returns the index models RunMigrations installs on the collection.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(EmailConstraint)},
		{Keys: bson.D{{Key: "referralCode", Value: 1}}, Options: options.Index().SetUnique(true).SetName(ReferralCodeConstraint)},
		{Keys: bson.D{{Key: "referrer", Value: 1}}, Options: options.Index().SetName("idx_accounts_referrer_code")},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetName("idx_accounts_created_at")},
	}
}
