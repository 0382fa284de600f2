package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mealhub/pkg/logger"
)

type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
	Down        func(context.Context, *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
		logger:     log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("Running migration: %s", migration.Description)

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) Down(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("Reverting migration: %s", migration.Description)

		if err := migration.Down(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
		}

		previousVersion := targetVersion
		if i > 0 {
			previousVersion = m.migrations[i-1].Version
		}

		if err := m.updateVersion(ctx, previousVersion); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection("migrations").FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection("migrations").ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create principal collections with phone indexes",
			Up:          createPrincipalIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return dropIndexes(ctx, db, CollectionAdmins, CollectionRestaurants, CollectionDrivers, CollectionUsers)
			},
		},
		{
			Version:     2,
			Description: "Create catalog indexes",
			Up:          createCatalogIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return dropIndexes(ctx, db, CollectionItems, CollectionCategories, CollectionPlans, CollectionOffers)
			},
		},
		{
			Version:     3,
			Description: "Create review indexes",
			Up:          createReviewIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return dropIndexes(ctx, db, CollectionReviews)
			},
		},
		{
			Version:     4,
			Description: "Create cart indexes",
			Up:          createCartIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return dropIndexes(ctx, db, CollectionCarts)
			},
		},
	}
}

func createPrincipalIndexes(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{CollectionAdmins, CollectionRestaurants, CollectionDrivers, CollectionUsers} {
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "phone", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "created_at", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "is_blocked", Value: 1}, {Key: "is_active", Value: 1}},
			},
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	_, err := db.Collection(CollectionDrivers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "registration_step", Value: 1}}},
		{Keys: bson.D{{Key: "is_approved", Value: 1}, {Key: "is_registration_complete", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}

func createCatalogIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionItems).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "is_available", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", CollectionItems, err)
	}

	_, err = db.Collection(CollectionCategories).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "restaurant_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "sort_order", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", CollectionCategories, err)
	}

	_, err = db.Collection(CollectionPlans).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "restaurant_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", CollectionPlans, err)
	}

	_, err = db.Collection(CollectionOffers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coupon_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "is_active", Value: 1}, {Key: "end_date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", CollectionOffers, err)
	}

	return nil
}

func createReviewIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionReviews).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "is_visible", Value: 1}, {Key: "is_deleted", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

func createCartIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionCarts).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "restaurant_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func dropIndexes(ctx context.Context, db *mongo.Database, collections ...string) error {
	for _, name := range collections {
		if _, err := db.Collection(name).Indexes().DropAll(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
