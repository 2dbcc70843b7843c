package sqlinline

const QInsertUser = `--sql 96e9d2e7-7eb0-477d-9f12-730976dd5d3c
insert into users (id, email, password_hash, user_type, created_at)
values ($1, $2, $3, $4, $5);
`

const QSelectUserByCredentials = `--sql 26d8611f-f9c9-4868-864e-4a02a009c847
select id, email, password_hash, user_type, created_at
from users
where email = $1 and password_hash = $2
limit 1;
`

const QListUsers = `--sql 55d416c8-8123-49e9-88a8-2048729c6882
select id, email, password_hash, user_type, created_at
from users
order by created_at;
`
