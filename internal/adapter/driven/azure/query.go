package azure

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
)

const (
	clientModule  = "github.com/diillson/cloud-insights-reports/internal/adapter/driven/azure"
	clientVersion = "v1.0.0"
)

// queryClient junta o QueryClient do SDK com um pipeline ARM para seguir o
// nextLink, que o QueryClient não expõe.
type queryClient struct {
	*armcostmanagement.QueryClient
	pipeline runtime.Pipeline
}

func newQueryClient(cred azcore.TokenCredential) (*queryClient, error) {
	factory, err := armcostmanagement.NewClientFactory(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cost management client: %w", err)
	}
	armClient, err := arm.NewClient(clientModule, clientVersion, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ARM pipeline: %w", err)
	}
	return &queryClient{QueryClient: factory.NewQueryClient(), pipeline: armClient.Pipeline()}, nil
}

// NextPage reenvia a consulta para o nextLink, que já carrega o $skiptoken.
func (c *queryClient) NextPage(ctx context.Context, nextLink string, parameters armcostmanagement.QueryDefinition) (armcostmanagement.QueryResult, error) {
	var page armcostmanagement.QueryResult
	req, err := runtime.NewRequest(ctx, http.MethodPost, nextLink)
	if err != nil {
		return page, err
	}
	if err := runtime.MarshalAsJSON(req, parameters); err != nil {
		return page, err
	}
	resp, err := c.pipeline.Do(req)
	if err != nil {
		return page, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return page, runtime.NewResponseError(resp)
	}
	if err := runtime.UnmarshalAsJSON(resp, &page); err != nil {
		return page, err
	}
	return page, nil
}
