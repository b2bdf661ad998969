package deps

import (
	"context"
	"exzly/internal/config"
	dl "exzly/internal/core/domain/logging"
	drl "exzly/internal/core/domain/rate_limiter"
	duow "exzly/internal/core/domain/unit_of_work"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	uow "exzly/internal/db/unit_of_work"
	dbuser "exzly/internal/db/user"
	dbverification "exzly/internal/db/verification"
	codegenerator "exzly/internal/implementations/code_generator"
	codehasher "exzly/internal/implementations/code_hasher"
	"exzly/internal/implementations/email"
	"exzly/internal/implementations/logging"
	markerstore "exzly/internal/implementations/marker_store"
	passwordhasher "exzly/internal/implementations/password_hasher"
	ratelimiter "exzly/internal/implementations/rate_limiter"
	tokenissuer "exzly/internal/implementations/token_issuer"
	"exzly/internal/rabbitmq"
	codenotification "exzly/internal/rabbitmq/publishers/code_notification"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork             duow.UnitOfWork
	UserRepository         user.UserRepository
	VerificationRepository verification.Repository

	RateLimiter drl.RateLimiter

	EmailSender *email.EmailSender
	Notifier    verification.Notifier

	PasswordHasher       user.PasswordHasher
	TokenIssuer          *tokenissuer.JWT
	CodeGenerator        verification.CodeGenerator
	CodeHasher           verification.CodeHasher
	MarkerStore          verification.MarkerStore
	VerificationSettings verification.Settings
}

func closeAll(closeFuncs ...func()) func() {
	return func() {
		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}
		wg.Wait()
	}
}

// InitDeps wires everything the API server needs.
func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.VerificationSettings = deps.Config.VerificationSettings()
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB, deps.PasswordHasher)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB, deps.PasswordHasher)
	deps.VerificationRepository = dbverification.NewPgxRepository(deps.DB)

	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.MarkerStore = markerstore.NewRedis(deps.Redis)
	deps.TokenIssuer = tokenissuer.NewJWT(
		deps.Config.Secret,
		deps.Config.TokenIssuer,
		deps.Config.SessionTokenTTL,
		deps.VerificationSettings.ResetWindow,
		deps.Now,
	)
	deps.CodeGenerator = codegenerator.NewGenerator(deps.VerificationSettings.Denylist)
	deps.CodeHasher = codehasher.NewHMAC(deps.Config.Secret)

	closeNotifier := deps.initNotifier()

	return deps, closeAll(closeNotifier, closeRedisClient, closePgxPool, closeLogger)
}

// InitMailerDeps wires the mail relay, it never touches DB or Redis.
func InitMailerDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closeRabbitmqConn := deps.initRabbitmqConnection()
	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.EmailSender = deps.newEmailSender()

	return deps, closeAll(closeRabbitmqConn, closeLogger)
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LoggingOptions())
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) newEmailSender() *email.EmailSender {
	return email.NewEmailSender(
		deps.AwsConfig,
		deps.Config.AwsEmailSender,
		email.Templates{
			PasswordReset:       deps.Config.AwsEmailPasswordResetTemplate,
			AccountVerification: deps.Config.AwsEmailAccountVerificationTemplate,
		},
		deps.Config.VerificationURL,
	)
}

// initNotifier sends codes inline through SES or hands them to the mail
// relay, depending on NOTIFIER.
func (deps *Deps) initNotifier() func() {
	if deps.Config.Notifier != config.NotifierRabbitmq {
		deps.EmailSender = deps.newEmailSender()
		deps.Notifier = deps.EmailSender
		deps.Logger.Info(context.Background(), "Codes are sent through SES.")
		return func() {}
	}

	closeRabbitmqConn := deps.initRabbitmqConnection()
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	queue := deps.Config.RabbitmqCodeNotificationQueue
	if err := rabbitmqChannel.DeclareQueue(queue); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	deps.Notifier = codenotification.NewRabbitMQ(deps.Logger, rabbitmqChannel, "", queue)
	deps.Logger.Info(context.Background(), "Codes are relayed through RabbitMQ.", dl.Entry("queue", queue))

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down code notification publisher.")
		rabbitmqChannel.Close()
		closeRabbitmqConn()
	}
}
