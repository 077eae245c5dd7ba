package tripay

import (
    "context"

    "tripay-ppob-api/models"
)

const endpointCheckServer = "/cekserver"

// ServerService checks upstream availability.
type ServerService struct {
    client *Client
}

func NewServerService(client *Client) *ServerService {
    return &ServerService{client: client}
}

func (s *ServerService) CheckServer(ctx context.Context) (models.ServerResponse, error) {
    payload, err := s.client.Get(ctx, endpointCheckServer, nil)
    if err != nil {
        return models.ServerResponse{}, err
    }
    return models.DecodeServerResponse(payload), nil
}

// TestConnection swallows any error into a false result.
func (s *ServerService) TestConnection(ctx context.Context) bool {
    resp, err := s.CheckServer(ctx)
    if err != nil {
        return false
    }
    return resp.Success
}
