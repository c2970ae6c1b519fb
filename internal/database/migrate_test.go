package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	script := `-- comment
CREATE TABLE a (
    id NUMBER
);

CREATE INDEX idx_a ON a (id);
DROP TABLE b`

	stmts := SplitStatements(script)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (\nid NUMBER\n)", stmts[0])
	assert.Equal(t, "CREATE INDEX idx_a ON a (id)", stmts[1])
	assert.Equal(t, "DROP TABLE b", stmts[2])
}

func TestMigrationFiles(t *testing.T) {
	up, err := migrationFiles("migrations/oracle", Up)
	require.NoError(t, err)
	require.NotEmpty(t, up)
	assert.Equal(t, "000001_create_quiz_tables.up.sql", up[0])

	down, err := migrationFiles("migrations/postgres", Down)
	require.NoError(t, err)
	require.NotEmpty(t, down)
	assert.Equal(t, "000001_create_quiz_tables.down.sql", down[len(down)-1])
}

func TestOracleSchema_CharacterLengthSemantics(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/oracle/000001_create_quiz_tables.up.sql")
	require.NoError(t, err)
	script := string(data)

	assert.Empty(t, regexp.MustCompile(`VARCHAR2\(\d+\)`).FindAllString(script, -1),
		"VARCHAR2 columns must be sized in characters")
	assert.Regexp(t, `title\s+VARCHAR2\(200 CHAR\)`, script)
	for _, column := range []string{"url", "answer", "option_text"} {
		assert.Regexp(t, column+`\s+CLOB NOT NULL`, script)
	}
}

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "000001", migrationVersion("000001_create_quiz_tables.up.sql"))
	assert.Equal(t, "noversion.sql", migrationVersion("noversion.sql"))
}

func TestDriverName(t *testing.T) {
	name, err := DriverName("oracle")
	require.NoError(t, err)
	assert.Equal(t, "oracle", name)

	name, err = DriverName("postgres")
	require.NoError(t, err)
	assert.Equal(t, "pgx", name)

	_, err = DriverName("sqlite")
	assert.Error(t, err)
}

func TestRunOracleMigrations_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_tables")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("000001"))

	require.NoError(t, RunMigrations(context.Background(), db, "oracle", Up))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOracleMigrations_AppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_tables")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE quizzes")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx_quizzes_created_at")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE quiz_questions")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE quiz_options")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs("000001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, RunMigrations(context.Background(), db, "oracle", Up))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_UnknownDialect(t *testing.T) {
	err := RunMigrations(context.Background(), nil, "mysql", Up)
	assert.Error(t, err)
}
