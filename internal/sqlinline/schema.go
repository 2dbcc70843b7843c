package sqlinline

const QCreateSchema = `--sql 0b3cdd0d-d810-4312-8bca-0f688b7337d3
create table if not exists users (
    id text primary key,
    email text not null unique,
    password_hash text not null,
    user_type text not null default 'fisher',
    created_at timestamptz not null default now()
);
create table if not exists catches (
    id text primary key,
    user_id text not null,
    fish_type text not null,
    quantity_kg double precision not null,
    location text not null,
    price_analysis jsonb not null,
    created_at timestamptz not null default now()
);
create index if not exists catches_user_id_idx on catches (user_id);
create table if not exists provider_credentials (
    provider text primary key,
    api_key text not null,
    updated_at timestamptz not null default now()
);
`
