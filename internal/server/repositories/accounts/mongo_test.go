package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mustDecimal128(t *mtest.T, s string) primitive.Decimal128 {
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func accountDoc(id primitive.ObjectID, name string, wallet any, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "email", Value: name + "@example.com"},
		{Key: "password", Value: "hash"},
		{Key: "referrer", Value: "482913"},
		{Key: "referralCode", Value: "100001"},
		{Key: "paymentStatus", Value: "Pending"},
		{Key: "wallet", Value: wallet},
		{Key: "createdAt", Value: created},
	}
}

func TestMongo_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		a, err := repo.Create(context.Background(), &models.Account{
			Name: "alice", Email: "alice@example.com", ReferralCode: "482913",
			PaymentStatus: models.PaymentPending, Wallet: decimal.Zero, CreatedAt: time.Now(),
		})
		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(a.ID)
		assert.NoError(mt, err)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.accounts index: uq_accounts_email dup key: { email: \"alice@example.com\" }",
		}))

		_, err := repo.Create(context.Background(), &models.Account{Email: "alice@example.com"})
		assert.ErrorIs(mt, err, common.ErrDuplicateEmail)
	})

	mt.Run("duplicate referral code", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.accounts index: uq_accounts_referral_code dup key",
		}))

		_, err := repo.Create(context.Background(), &models.Account{Email: "bob@example.com"})
		assert.ErrorIs(mt, err, common.ErrDuplicateReferralCode)
	})
}

func TestMongo_GetByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("found with legacy numeric wallet", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, accountDoc(id, "bob", 10.0, created)))

		got, err := repo.GetByEmail(context.Background(), "bob@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), got.ID)
		assert.Equal(mt, "482913", got.ReferrerCode)
		assert.True(mt, got.Wallet.Equal(decimal.NewFromInt(10)))
		assert.True(mt, created.Equal(got.CreatedAt))
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})
}

func TestMongo_GetByID_MalformedID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("malformed", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		_, err := repo.GetByID(context.Background(), "xyz")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})
}

func TestMongo_ReferralCodeExists(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("exists", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: primitive.NewObjectID()}}))

		ok, err := repo.ReferralCodeExists(context.Background(), "482913")
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("free", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		ok, err := repo.ReferralCodeExists(context.Background(), "111111")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestMongo_CreditWallet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("credited", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		doc := accountDoc(primitive.NewObjectID(), "alice", mustDecimal128(mt, "15"), time.Now())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))

		got, err := repo.CreditWallet(context.Background(), "100001", decimal.NewFromInt(5))
		require.NoError(mt, err)
		assert.True(mt, got.Equal(decimal.NewFromInt(15)), "got %s", got)
	})

	mt.Run("no such code", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.CreditWallet(context.Background(), "000000", decimal.NewFromInt(5))
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})
}

func TestMongo_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes all documents", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			accountDoc(primitive.NewObjectID(), "bob", int32(0), base),
			accountDoc(primitive.NewObjectID(), "carol", mustDecimal128(mt, "5"), base.Add(time.Minute)),
		))

		got, err := repo.ListReferrals(context.Background(), "482913")
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "bob", got[0].Name)
		assert.True(mt, got[1].Wallet.Equal(decimal.NewFromInt(5)))
	})
}

func TestMongo_Mutations(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID().Hex()

	mt.Run("update profile", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := repo.UpdateProfile(context.Background(), "alice@example.com", models.Profile{Name: "Alice"})
		assert.NoError(mt, err)
	})

	mt.Run("verify payment of missing account", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.SetPaymentStatus(context.Background(), id, models.PaymentVerified)
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("reset password", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		assert.NoError(mt, repo.SetPasswordHash(context.Background(), id, "newhash"))
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.Delete(context.Background(), id))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.Delete(context.Background(), id), common.ErrorNotFound)
	})

	mt.Run("malformed ids", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ctx := context.Background()
		assert.ErrorIs(mt, repo.SetPaymentStatus(ctx, "nope", models.PaymentVerified), common.ErrorNotFound)
		assert.ErrorIs(mt, repo.SetPasswordHash(ctx, "nope", "h"), common.ErrorNotFound)
		assert.ErrorIs(mt, repo.Delete(ctx, "nope"), common.ErrorNotFound)
	})
}

func TestWalletValue(t *testing.T) {
	d, err := primitive.ParseDecimal128("12.50")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"decimal128", d, "12.5"},
		{"double", 7.0, "7"},
		{"int32", int32(3), "3"},
		{"int64", int64(4), "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, data, err := bson.MarshalValue(tt.value)
			require.NoError(t, err)

			got, err := walletValue(bson.RawValue{Type: typ, Value: data})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	zero, err := walletValue(bson.RawValue{})
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	typ, data, err := bson.MarshalValue("five")
	require.NoError(t, err)
	_, err = walletValue(bson.RawValue{Type: typ, Value: data})
	assert.Error(t, err)
}
