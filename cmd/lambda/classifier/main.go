package main

import (
	"context"
	"net/http"

	"card-classifier-api/internal/handlers"
	"card-classifier-api/pkg/lambda"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var router *handlers.LambdaRouter

func init() {
	container, err := lambda.GetConnectionManager().GetContainer(context.Background())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}

	container.Logger.WithFields(container.Serverless.LogFields()).Info("Lambda container initialized")

	router = handlers.NewLambdaRouter(&handlers.RouterConfig{
		CardService:    container.CardService,
		Health:         container,
		Logger:         container.Logger,
		RoutePrefix:    container.Config.RoutePrefix,
		DeploymentMode: container.DeploymentMode,
	})
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := lambda.FromAPIGatewayProxyRequest(event)
	if err != nil {
		return lambda.JSONResponse(http.StatusBadRequest, []byte(`{"error":"Invalid JSON format"}`)).ToAPIGatewayProxyResponse(), nil
	}

	resp, err := router.Handle(ctx, req)
	if err != nil {
		logrus.WithError(err).WithField("path", req.Path).Error("Handler failed")
		return lambda.JSONResponse(http.StatusInternalServerError, []byte(`{"error":"Internal server error"}`)).ToAPIGatewayProxyResponse(), nil
	}

	return resp.ToAPIGatewayProxyResponse(), nil
}

func main() {
	awslambda.StartWithOptions(handler, awslambda.WithEnableSIGTERM(func() {
		if err := lambda.GetConnectionManager().Shutdown(); err != nil {
			logrus.WithError(err).Error("Failed to close container")
		}
	}))
}
