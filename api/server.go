package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/Benvin-888/electronic-voting-backened/api/controllers"
	"github.com/Benvin-888/electronic-voting-backened/api/transport"
	"github.com/Benvin-888/electronic-voting-backened/broadcast"
	"github.com/Benvin-888/electronic-voting-backened/logging"
	"github.com/Benvin-888/electronic-voting-backened/notify"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}

	dynamoClient := dynamodb.NewFromConfig(cfg)

	voterStorage := &storage.DynamoVoterStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameVoters,
	}
	candidateStorage := &storage.DynamoCandidateStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCandidates,
	}
	voteStorage := &storage.DynamoVoteStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameVotes,
	}
	settingStorage := &storage.DynamoSettingStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameSettings,
	}
	auditStorage := &storage.DynamoAuditStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameAuditLog,
	}
	ballotCommitter := &storage.DynamoBallotCommitter{
		Client:          dynamoClient,
		VotesTable:      s.config.TableNameVotes,
		CandidatesTable: s.config.TableNameCandidates,
		VotersTable:     s.config.TableNameVoters,
	}

	seedDefaultSettings(settingStorage)

	broadcaster := newBroadcaster(s.config.BroadcastConfig)
	notifier := notify.LogNotifier{}

	//Register controllers
	votingController := controllers.NewVotingController(
		voterStorage, candidateStorage, voteStorage, ballotCommitter, settingStorage, auditStorage, broadcaster, notifier)
	votingController.RegisterRoutes(r)
	resultsController := controllers.NewResultsController(
		voteStorage, candidateStorage, voterStorage, settingStorage, auditStorage)
	resultsController.RegisterRoutes(r)
	voterController := controllers.NewVoterController(voterStorage, auditStorage)
	voterController.RegisterRoutes(r)
	candidateController := controllers.NewCandidateMetaController(candidateStorage, auditStorage)
	candidateController.RegisterRoutes(r)
	adminController := controllers.NewAdminController(settingStorage, auditStorage, broadcaster)
	adminController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// seedDefaultSettings creates the election control keys once; existing
// values are never overwritten.
func seedDefaultSettings(settings storage.SettingStorage) {
	ctx := context.Background()
	defaults := map[string]string{
		storage.SettingPortalOpen:       "false",
		storage.SettingResultsPublished: "false",
	}
	for key, value := range defaults {
		if err := settings.EnsureDefault(ctx, key, value); err != nil {
			logging.Log.Errorf("failed to seed setting %s: %v", key, err)
		}
	}
}

func newBroadcaster(cfg BroadcastConfig) broadcast.Broadcaster {
	if cfg.AMQPURL == "" {
		logging.Log.Info("no AMQP url configured, realtime broadcast disabled")
		return broadcast.NoopBroadcaster{}
	}
	broadcaster, err := broadcast.NewAMQPBroadcaster(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		logging.Log.Errorf("failed to connect broadcaster, falling back to noop: %v", err)
		return broadcast.NoopBroadcaster{}
	}
	return broadcaster
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
