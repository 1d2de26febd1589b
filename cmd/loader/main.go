// Command loader ingests an NDJSON catalog dump into a date-partitioned
// search index, creating the index schema when asked to.
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/config"
	"github.com/kailas-cloud/askgames/internal/db"
	dbRedis "github.com/kailas-cloud/askgames/internal/db/redis"
	"github.com/kailas-cloud/askgames/internal/domain"
	logpkg "github.com/kailas-cloud/askgames/internal/logger"
)

func main() {
	var (
		file      = flag.String("file", "data/steam_games_data_vect.ndjson", "NDJSON dataset path")
		indexName = flag.String("index", "", "target index name (default: pattern prefix + today)")
		batchSize = flag.Int("batch", 100, "documents per pipelined write")
		create    = flag.Bool("create", true, "create the index if it does not exist")
	)
	flag.Parse()

	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	name := *indexName
	if name == "" {
		prefix, _, _ := strings.Cut(cfg.Retrieval.IndexPattern, "*")
		name = prefix + time.Now().UTC().Format("2006.01.02")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		MaxRetries: cfg.Database.MaxRetries,
	})
	if err != nil {
		logger.Fatal("Failed to create search store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search store not ready", zap.Error(err))
	}

	if *create {
		if err := ensureIndex(ctx, store, name, cfg.Embedding.Dimensions); err != nil {
			logger.Fatal("Failed to create index", zap.String("index", name), zap.Error(err))
		}
	}

	loaded, failed, err := load(ctx, store, name, *file, *batchSize)
	if err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}

	logger.Info("Load complete",
		zap.String("index", name),
		zap.Int("loaded", loaded),
		zap.Int("failed", failed),
	)
}

// ensureIndex creates the catalog schema unless it already exists.
func ensureIndex(ctx context.Context, store db.Store, name string, dims int) error {
	def, err := db.NewIndex(name).
		Prefix(name+":").
		TextWeighted(domain.FieldName, 5).
		Text(domain.FieldShortDesc).
		Text(domain.FieldDetailedDesc).
		Text(domain.FieldPriceCat).
		TagWithSeparator(domain.FieldGenres, ",").
		TextAlias(domain.FieldGenres, domain.FieldGenresText).
		TagWithSeparator(domain.FieldDevelopers, ",").
		Tag(domain.FieldIsFree).
		Numeric(domain.FieldPrice).
		Numeric(domain.FieldQualityScore).
		Numeric(domain.FieldReleaseDate).
		VectorHNSW(domain.FieldEmbedding, dims, db.DistanceCosine, 16, 200).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// rawGame mirrors one NDJSON dataset line.
type rawGame struct {
	AppID        json.Number `json:"appid"`
	Name         string      `json:"name"`
	ShortDesc    string      `json:"short_description"`
	DetailedDesc string      `json:"detailed_description"`
	Genres       []string    `json:"genres"`
	Developers   []string    `json:"developers"`
	PriceCat     string      `json:"price_category"`
	PriceFinal   float64     `json:"price_final"`
	IsFree       bool        `json:"is_free"`
	QualityScore float64     `json:"quality_score"`
	ReleaseDate  string      `json:"release_date"`
	Embedding    []float32   `json:"vector_embedding"`
}

func load(ctx context.Context, store db.Store, index, path string, batchSize int) (loaded, failed int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Loading catalog"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	batch := make([]db.HashSetItem, 0, batchSize)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var g rawGame
		if err := json.Unmarshal([]byte(text), &g); err != nil {
			failed++
			continue
		}

		batch = append(batch, db.HashSetItem{
			Key:    docKey(index, g, line),
			Fields: hashFields(g),
		})

		if len(batch) >= batchSize {
			if err := store.HSetMulti(ctx, batch); err != nil {
				return loaded, failed, fmt.Errorf("write batch at line %d: %w", line, err)
			}
			loaded += len(batch)
			_ = bar.Add(len(batch))
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return loaded, failed, fmt.Errorf("read dataset: %w", err)
	}

	if len(batch) > 0 {
		if err := store.HSetMulti(ctx, batch); err != nil {
			return loaded, failed, fmt.Errorf("write final batch: %w", err)
		}
		loaded += len(batch)
		_ = bar.Add(len(batch))
	}

	_ = bar.Finish()
	return loaded, failed, nil
}

func docKey(index string, g rawGame, line int) string {
	if g.AppID != "" {
		return index + ":" + g.AppID.String()
	}
	return index + ":" + strconv.Itoa(line)
}

func hashFields(g rawGame) map[string]string {
	fields := map[string]string{
		domain.FieldName:         g.Name,
		domain.FieldShortDesc:    g.ShortDesc,
		domain.FieldDetailedDesc: g.DetailedDesc,
		domain.FieldPriceCat:     g.PriceCat,
		domain.FieldGenres:       strings.Join(g.Genres, ","),
		domain.FieldDevelopers:   strings.Join(g.Developers, ","),
		domain.FieldPrice:        strconv.FormatFloat(g.PriceFinal, 'f', -1, 64),
		domain.FieldIsFree:       strconv.FormatBool(g.IsFree),
		domain.FieldQualityScore: strconv.FormatFloat(g.QualityScore, 'f', -1, 64),
	}

	if ts, err := time.Parse("2006-01-02", g.ReleaseDate); err == nil {
		fields[domain.FieldReleaseDate] = strconv.FormatInt(ts.Unix(), 10)
	}

	if len(g.Embedding) > 0 {
		fields[domain.FieldEmbedding] = string(vectorToBytes(g.Embedding))
	}

	return fields
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
