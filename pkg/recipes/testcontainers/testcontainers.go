// Package testcontainers implements recipes for Testcontainers API changes.
package testcontainers

import (
	"bytes"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
)

const namePrefix = "specvital.testcontainers."

func init() {
	recipe.Register(NewGetHostMigration())
	recipe.Register(NewExplicitContainerImages())
}

func usesTestcontainers(source []byte) bool {
	return bytes.Contains(source, []byte("org.testcontainers"))
}

var containerIPAddress = recipe.MustMethodMatcher("org.testcontainers..* getContainerIpAddress()")

// GetHostMigration replaces the deprecated getContainerIpAddress() with
// getHost().
type GetHostMigration struct {
	recipe.Info
}

func NewGetHostMigration() *GetHostMigration {
	return &GetHostMigration{Info: recipe.NewInfo(
		namePrefix+"GetHostMigration",
		"Replace `ContainerState.getContainerIpAddress()` with `getHost()`",
		"Replace `org.testcontainers.containers.ContainerState.getContainerIpAddress()` with `getHost()`.",
	)}
}

func (r *GetHostMigration) Applicable(source []byte) bool {
	return usesTestcontainers(source)
}

func (r *GetHostMigration) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	file.MethodCalls(func(call *sitter.Node) bool {
		if javaast.CallObject(call) != nil && containerIPAddress.Matches(file, call) {
			changes.Replace(call.ChildByFieldName("name"), "getHost")
		}
		return true
	})
	return nil
}

// defaultImages holds the image each container used when constructed
// without one, before the no-arg constructors were removed.
var defaultImages = map[string]string{
	"org.testcontainers.containers.CassandraContainer":             "cassandra:3.11.2",
	"org.testcontainers.containers.ClickHouseContainer":            "yandex/clickhouse-server:18.10.3",
	"org.testcontainers.containers.CockroachContainer":             "cockroachdb/cockroach:v19.2.11",
	"org.testcontainers.couchbase.CouchbaseContainer":              "couchbase/server:6.5.1",
	"org.testcontainers.dynamodb.DynaliteContainer":                "quay.io/testcontainers/dynalite:v1.2.1-1",
	"org.testcontainers.elasticsearch.ElasticsearchContainer":      "docker.elastic.co/elasticsearch/elasticsearch:7.9.2",
	"org.testcontainers.containers.InfluxDBContainer":              "influxdb:1.4.3",
	"org.testcontainers.containers.KafkaContainer":                 "confluentinc/cp-kafka:5.4.3",
	"org.testcontainers.containers.localstack.LocalStackContainer": "localstack/localstack:0.11.2",
	"org.testcontainers.containers.MariaDBContainer":               "mariadb:10.3.6",
	"org.testcontainers.containers.MockServerContainer":            "jamesdbloom/mockserver:mockserver-5.5.4",
	"org.testcontainers.containers.MongoDBContainer":               "mongo:4.0.10",
	"org.testcontainers.containers.MSSQLServerContainer":           "mcr.microsoft.com/mssql/server:2017-CU12",
	"org.testcontainers.containers.MySQLContainer":                 "mysql:5.7.34",
	"org.testcontainers.containers.Neo4jContainer":                 "neo4j:3.5.0",
	"org.testcontainers.containers.NginxContainer":                 "nginx:1.9.4",
	"org.testcontainers.containers.OracleContainer":                "gvenzl/oracle-xe:18.4.0-slim",
	"org.testcontainers.containers.OrientDBContainer":              "orientdb:3.0.24-tp3",
	"org.testcontainers.containers.PostgreSQLContainer":            "postgres:9.6.12",
	"org.testcontainers.containers.PrestoContainer":                "ghcr.io/trinodb/presto:344",
	"org.testcontainers.containers.RabbitMQContainer":              "rabbitmq:3.7.25-management-alpine",
	"org.testcontainers.containers.ToxiproxyContainer":             "shopify/toxiproxy:2.1.0",
	"org.testcontainers.vault.VaultContainer":                      "vault:1.1.3",
}

// DefaultImage returns the historical default image of a container type.
func DefaultImage(fqn string) (string, bool) {
	image, ok := defaultImages[fqn]
	return image, ok
}

// ExplicitContainerImages adds the former default image to no-arg
// constructor calls of containers whose no-arg constructor is deprecated.
type ExplicitContainerImages struct {
	recipe.Info
}

func NewExplicitContainerImages() *ExplicitContainerImages {
	return &ExplicitContainerImages{Info: recipe.NewInfo(
		namePrefix+"ExplicitContainerImages",
		"Add explicit container images",
		"Replace implicit default container images with the explicit image they used before the no-arg constructors were deprecated.",
	)}
}

func (r *ExplicitContainerImages) Applicable(source []byte) bool {
	return usesTestcontainers(source)
}

func (r *ExplicitContainerImages) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	file.Walk(func(n *sitter.Node) bool {
		if n.Type() != javaast.NodeObjectCreation {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil || len(javaast.Arguments(n)) != 0 {
			return true
		}
		for _, fqn := range file.ResolveType(file.Text(n.ChildByFieldName("type"))) {
			if image, ok := defaultImages[fqn]; ok {
				changes.Replace(args, "("+strconv.Quote(image)+")")
				break
			}
		}
		return true
	})
	return nil
}
